package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/rentora/rentora/internal/domain"
	"github.com/rentora/rentora/internal/server/middleware"
)

type CreateApplicationInput struct {
	Body struct {
		PropertyID uuid.UUID `json:"property_id" doc:"Property to apply for"`
		Message    string    `json:"message,omitempty" maxLength:"2000" doc:"Message to the landlord"`
		MoveInDate time.Time `json:"move_in_date,omitempty" doc:"Desired move-in date"`
	}
}

type ApplicationOutput struct {
	Body *domain.Application
}

type ListApplicationsInput struct {
	PropertyID uuid.UUID `query:"property_id" doc:"Landlords: filter by property"`
	Status     string    `query:"status" enum:",pending,approved,rejected,withdrawn" doc:"Filter by status"`
}

type ListApplicationsOutput struct {
	Body []*domain.Application
}

type GetApplicationInput struct {
	ID uuid.UUID `path:"id" doc:"Application ID"`
}

type DecideApplicationInput struct {
	ID   uuid.UUID `path:"id" doc:"Application ID"`
	Body struct {
		Approve         bool   `json:"approve" doc:"true to approve, false to reject"`
		RejectionReason string `json:"rejection_reason,omitempty" maxLength:"1000" doc:"Reason shown to the applicant on rejection"`
	}
}

type WithdrawApplicationInput struct {
	ID uuid.UUID `path:"id" doc:"Application ID"`
}

func RegisterApplicationRoutes(api huma.API, store DataStore, svc LeaseService) {
	huma.Register(api, huma.Operation{
		OperationID: "create-application",
		Method:      http.MethodPost,
		Path:        "/applications",
		Summary:     "Apply for a property",
		Tags:        []string{"Applications"},
	}, func(ctx context.Context, input *CreateApplicationInput) (*ApplicationOutput, error) {
		actor, ok := middleware.ActorFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing user context")
		}

		app, err := svc.CreateApplication(ctx, actor, input.Body.PropertyID, input.Body.Message, input.Body.MoveInDate)
		if err != nil {
			return nil, lifecycleError(err, "failed to create application")
		}

		return &ApplicationOutput{Body: app}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-applications",
		Method:      http.MethodGet,
		Path:        "/applications",
		Summary:     "List applications visible to the caller",
		Tags:        []string{"Applications"},
	}, func(ctx context.Context, input *ListApplicationsInput) (*ListApplicationsOutput, error) {
		actor, ok := middleware.ActorFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing user context")
		}

		var (
			apps []*domain.Application
			err  error
		)
		switch {
		case input.PropertyID != uuid.Nil:
			apps, err = store.Applications().ListByProperty(ctx, input.PropertyID)
		case actor.Role == domain.RoleLandlord:
			apps, err = store.Applications().ListByLandlord(ctx, actor.ID)
		default:
			apps, err = store.Applications().ListByTenant(ctx, actor.ID)
		}
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list applications", err)
		}

		filtered := apps[:0]
		for _, app := range apps {
			if !actor.IsAdmin() && actor.ID != app.TenantID && actor.ID != app.LandlordID {
				continue
			}
			if input.Status != "" && app.Status != domain.ApplicationStatus(input.Status) {
				continue
			}
			filtered = append(filtered, app)
		}

		return &ListApplicationsOutput{Body: filtered}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-application",
		Method:      http.MethodGet,
		Path:        "/applications/{id}",
		Summary:     "Get an application by ID",
		Tags:        []string{"Applications"},
	}, func(ctx context.Context, input *GetApplicationInput) (*ApplicationOutput, error) {
		actor, ok := middleware.ActorFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing user context")
		}

		app, err := store.Applications().GetByID(ctx, input.ID)
		if err != nil {
			return nil, lifecycleError(err, "application not found")
		}
		if !actor.IsAdmin() && actor.ID != app.TenantID && actor.ID != app.LandlordID {
			return nil, huma.Error404NotFound("application not found")
		}

		return &ApplicationOutput{Body: app}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "decide-application",
		Method:      http.MethodPatch,
		Path:        "/applications/{id}/decision",
		Summary:     "Approve or reject an application",
		Tags:        []string{"Applications"},
	}, func(ctx context.Context, input *DecideApplicationInput) (*ApplicationOutput, error) {
		actor, ok := middleware.ActorFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing user context")
		}

		app, err := svc.DecideApplication(ctx, actor, input.ID, input.Body.Approve, input.Body.RejectionReason)
		if err != nil {
			return nil, lifecycleError(err, "failed to decide application")
		}

		return &ApplicationOutput{Body: app}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "withdraw-application",
		Method:      http.MethodPost,
		Path:        "/applications/{id}/withdraw",
		Summary:     "Withdraw a pending application",
		Tags:        []string{"Applications"},
	}, func(ctx context.Context, input *WithdrawApplicationInput) (*ApplicationOutput, error) {
		actor, ok := middleware.ActorFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing user context")
		}

		app, err := svc.WithdrawApplication(ctx, actor, input.ID)
		if err != nil {
			return nil, lifecycleError(err, "failed to withdraw application")
		}

		return &ApplicationOutput{Body: app}, nil
	})
}
