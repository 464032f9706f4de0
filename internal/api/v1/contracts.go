package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/rentora/rentora/internal/domain"
	"github.com/rentora/rentora/internal/lease"
	"github.com/rentora/rentora/internal/server/middleware"
)

type CreateContractInput struct {
	Body struct {
		ApplicationID uuid.UUID `json:"application_id" doc:"Approved application to contract"`
		StartDate     time.Time `json:"start_date" doc:"Lease start"`
		EndDate       time.Time `json:"end_date" doc:"Lease end, must follow start"`
		RentAmount    int64     `json:"rent_amount" minimum:"0" doc:"Monthly rent, minor currency units"`
		DepositAmount int64     `json:"deposit_amount,omitempty" minimum:"0" doc:"Deposit, minor currency units"`
		PaymentDay    int       `json:"payment_day" minimum:"1" maximum:"31" doc:"Day of month rent falls due; clamped to shorter months"`
		Terms         string    `json:"terms,omitempty" doc:"Free-form lease terms"`
	}
}

type ContractOutput struct {
	Body *domain.Contract
}

type ListContractsInput struct {
	Status string `query:"status" enum:",active,expired,terminated,renewed" doc:"Filter by status"`
}

type ListContractsOutput struct {
	Body []*domain.Contract
}

type GetContractInput struct {
	ID uuid.UUID `path:"id" doc:"Contract ID"`
}

type TerminateContractInput struct {
	ID uuid.UUID `path:"id" doc:"Contract ID"`
}

type RenewContractInput struct {
	ID   uuid.UUID `path:"id" doc:"Contract ID"`
	Body struct {
		EndDate    time.Time `json:"end_date" doc:"End date of the renewal term"`
		RentAmount int64     `json:"rent_amount,omitempty" minimum:"0" doc:"New rent; zero keeps the old amount"`
		PaymentDay int       `json:"payment_day,omitempty" minimum:"1" maximum:"31" doc:"New payment day; zero keeps the old day"`
		Terms      string    `json:"terms,omitempty" doc:"New terms; empty keeps the old terms"`
	}
}

func RegisterContractRoutes(api huma.API, store DataStore, svc LeaseService) {
	huma.Register(api, huma.Operation{
		OperationID: "create-contract",
		Method:      http.MethodPost,
		Path:        "/contracts",
		Summary:     "Create a contract from an approved application",
		Tags:        []string{"Contracts"},
	}, func(ctx context.Context, input *CreateContractInput) (*ContractOutput, error) {
		actor, ok := middleware.ActorFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing user context")
		}

		c, err := svc.CreateContract(ctx, actor, lease.CreateContractParams{
			ApplicationID: input.Body.ApplicationID,
			StartDate:     input.Body.StartDate,
			EndDate:       input.Body.EndDate,
			RentAmount:    input.Body.RentAmount,
			DepositAmount: input.Body.DepositAmount,
			PaymentDay:    input.Body.PaymentDay,
			Terms:         input.Body.Terms,
		})
		if err != nil {
			return nil, lifecycleError(err, "failed to create contract")
		}

		return &ContractOutput{Body: c}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-contracts",
		Method:      http.MethodGet,
		Path:        "/contracts",
		Summary:     "List contracts visible to the caller",
		Tags:        []string{"Contracts"},
	}, func(ctx context.Context, input *ListContractsInput) (*ListContractsOutput, error) {
		actor, ok := middleware.ActorFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing user context")
		}

		var (
			contracts []*domain.Contract
			err       error
		)
		switch {
		case actor.IsAdmin():
			contracts, err = store.Contracts().ListActive(ctx)
		case actor.Role == domain.RoleLandlord:
			contracts, err = store.Contracts().ListByLandlord(ctx, actor.ID)
		default:
			contracts, err = store.Contracts().ListByTenant(ctx, actor.ID)
		}
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list contracts", err)
		}

		if input.Status != "" {
			filtered := contracts[:0]
			for _, c := range contracts {
				if c.Status == domain.ContractStatus(input.Status) {
					filtered = append(filtered, c)
				}
			}
			contracts = filtered
		}

		return &ListContractsOutput{Body: contracts}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-contract",
		Method:      http.MethodGet,
		Path:        "/contracts/{id}",
		Summary:     "Get a contract by ID",
		Tags:        []string{"Contracts"},
	}, func(ctx context.Context, input *GetContractInput) (*ContractOutput, error) {
		actor, ok := middleware.ActorFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing user context")
		}

		c, err := store.Contracts().GetByID(ctx, input.ID)
		if err != nil {
			return nil, lifecycleError(err, "contract not found")
		}
		if !actor.IsAdmin() && actor.ID != c.TenantID && actor.ID != c.LandlordID {
			return nil, huma.Error404NotFound("contract not found")
		}

		return &ContractOutput{Body: c}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "terminate-contract",
		Method:      http.MethodPost,
		Path:        "/contracts/{id}/terminate",
		Summary:     "Terminate an active contract",
		Tags:        []string{"Contracts"},
	}, func(ctx context.Context, input *TerminateContractInput) (*ContractOutput, error) {
		actor, ok := middleware.ActorFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing user context")
		}

		c, err := svc.TerminateContract(ctx, actor, input.ID)
		if err != nil {
			return nil, lifecycleError(err, "failed to terminate contract")
		}

		return &ContractOutput{Body: c}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "renew-contract",
		Method:      http.MethodPost,
		Path:        "/contracts/{id}/renew",
		Summary:     "Renew an active contract into a successor term",
		Tags:        []string{"Contracts"},
	}, func(ctx context.Context, input *RenewContractInput) (*ContractOutput, error) {
		actor, ok := middleware.ActorFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing user context")
		}

		c, err := svc.RenewContract(ctx, actor, input.ID, lease.RenewContractParams{
			EndDate:    input.Body.EndDate,
			RentAmount: input.Body.RentAmount,
			PaymentDay: input.Body.PaymentDay,
			Terms:      input.Body.Terms,
		})
		if err != nil {
			return nil, lifecycleError(err, "failed to renew contract")
		}

		return &ContractOutput{Body: c}, nil
	})
}
