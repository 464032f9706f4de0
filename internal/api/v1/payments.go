package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/rentora/rentora/internal/domain"
	"github.com/rentora/rentora/internal/gateway"
	"github.com/rentora/rentora/internal/lease"
	"github.com/rentora/rentora/internal/server/middleware"
)

type CreatePaymentInput struct {
	Body struct {
		ContractID uuid.UUID `json:"contract_id" doc:"Contract the charge belongs to"`
		Amount     int64     `json:"amount" minimum:"0" doc:"Amount, minor currency units"`
		Type       string    `json:"type" enum:"rent,deposit,maintenance,late_fee,other" doc:"Charge type"`
		DueDate    time.Time `json:"due_date" doc:"When the charge falls due"`
		Notes      string    `json:"notes,omitempty" maxLength:"1000" doc:"Free-form notes"`
	}
}

type PaymentOutput struct {
	Body *domain.Payment
}

type ListPaymentsInput struct {
	ContractID uuid.UUID `query:"contract_id" doc:"Filter by contract"`
	Status     string    `query:"status" enum:",pending,paid,overdue,failed,refunded" doc:"Filter by status"`
}

type ListPaymentsOutput struct {
	Body []*domain.Payment
}

type GetPaymentInput struct {
	ID uuid.UUID `path:"id" doc:"Payment ID"`
}

type ProcessPaymentInput struct {
	ID uuid.UUID `path:"id" doc:"Payment ID"`
}

type ProcessPaymentOutput struct {
	Body *gateway.Intent
}

type ConfirmPaymentInput struct {
	ID   uuid.UUID `path:"id" doc:"Payment ID"`
	Body struct {
		TransactionID string `json:"transaction_id" minLength:"1" doc:"Gateway transaction reference"`
		Method        string `json:"method,omitempty" doc:"Payment method reported by the gateway"`
	}
}

type UpdatePaymentStatusInput struct {
	ID   uuid.UUID `path:"id" doc:"Payment ID"`
	Body struct {
		Status string `json:"status" enum:"pending,paid,overdue,failed,refunded" doc:"New status"`
		Notes  string `json:"notes,omitempty" maxLength:"1000" doc:"Audit note for the override"`
	}
}

func RegisterPaymentRoutes(api huma.API, store DataStore, svc LeaseService) {
	huma.Register(api, huma.Operation{
		OperationID: "create-payment",
		Method:      http.MethodPost,
		Path:        "/payments",
		Summary:     "Raise an ad-hoc charge against a contract",
		Tags:        []string{"Payments"},
	}, func(ctx context.Context, input *CreatePaymentInput) (*PaymentOutput, error) {
		actor, ok := middleware.ActorFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing user context")
		}

		p, err := svc.CreatePayment(ctx, actor, lease.CreatePaymentParams{
			ContractID: input.Body.ContractID,
			Amount:     input.Body.Amount,
			Type:       domain.PaymentType(input.Body.Type),
			DueDate:    input.Body.DueDate,
			Notes:      input.Body.Notes,
		})
		if err != nil {
			return nil, lifecycleError(err, "failed to create payment")
		}

		return &PaymentOutput{Body: p}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-payments",
		Method:      http.MethodGet,
		Path:        "/payments",
		Summary:     "List payments visible to the caller",
		Tags:        []string{"Payments"},
	}, func(ctx context.Context, input *ListPaymentsInput) (*ListPaymentsOutput, error) {
		actor, ok := middleware.ActorFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing user context")
		}

		var (
			payments []*domain.Payment
			err      error
		)
		switch {
		case input.ContractID != uuid.Nil:
			payments, err = store.Payments().ListByContract(ctx, input.ContractID)
		case actor.Role == domain.RoleLandlord:
			payments, err = store.Payments().ListByLandlord(ctx, actor.ID)
		default:
			payments, err = store.Payments().ListByTenant(ctx, actor.ID)
		}
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list payments", err)
		}

		filtered := payments[:0]
		for _, p := range payments {
			if !actor.IsAdmin() && actor.ID != p.TenantID && actor.ID != p.LandlordID {
				continue
			}
			if input.Status != "" && p.Status != domain.PaymentStatus(input.Status) {
				continue
			}
			filtered = append(filtered, p)
		}

		return &ListPaymentsOutput{Body: filtered}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-payment",
		Method:      http.MethodGet,
		Path:        "/payments/{id}",
		Summary:     "Get a payment by ID",
		Tags:        []string{"Payments"},
	}, func(ctx context.Context, input *GetPaymentInput) (*PaymentOutput, error) {
		actor, ok := middleware.ActorFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing user context")
		}

		p, err := store.Payments().GetByID(ctx, input.ID)
		if err != nil {
			return nil, lifecycleError(err, "payment not found")
		}
		if !actor.IsAdmin() && actor.ID != p.TenantID && actor.ID != p.LandlordID {
			return nil, huma.Error404NotFound("payment not found")
		}

		return &PaymentOutput{Body: p}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "process-payment",
		Method:      http.MethodPost,
		Path:        "/payments/{id}/process",
		Summary:     "Open a gateway charge intent for a payment",
		Tags:        []string{"Payments"},
	}, func(ctx context.Context, input *ProcessPaymentInput) (*ProcessPaymentOutput, error) {
		actor, ok := middleware.ActorFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing user context")
		}

		intent, err := svc.ProcessPayment(ctx, actor, input.ID)
		if err != nil {
			return nil, lifecycleError(err, "failed to process payment")
		}

		return &ProcessPaymentOutput{Body: intent}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "confirm-payment",
		Method:      http.MethodPost,
		Path:        "/payments/{id}/confirm",
		Summary:     "Confirm a settled gateway charge",
		Tags:        []string{"Payments"},
	}, func(ctx context.Context, input *ConfirmPaymentInput) (*PaymentOutput, error) {
		if _, ok := middleware.ActorFromContext(ctx); !ok {
			return nil, huma.Error403Forbidden("missing user context")
		}

		p, err := svc.ConfirmPayment(ctx, input.ID, input.Body.TransactionID, input.Body.Method)
		if err != nil {
			return nil, lifecycleError(err, "failed to confirm payment")
		}

		return &PaymentOutput{Body: p}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-payment-status",
		Method:      http.MethodPatch,
		Path:        "/payments/{id}/status",
		Summary:     "Override a payment status (admin)",
		Tags:        []string{"Payments"},
	}, func(ctx context.Context, input *UpdatePaymentStatusInput) (*PaymentOutput, error) {
		actor, ok := middleware.ActorFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing user context")
		}

		p, err := svc.UpdatePaymentStatus(ctx, actor, input.ID, domain.PaymentStatus(input.Body.Status), input.Body.Notes)
		if err != nil {
			return nil, lifecycleError(err, "failed to update payment status")
		}

		return &PaymentOutput{Body: p}, nil
	})
}
