package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/rentora/rentora/internal/domain"
	"github.com/rentora/rentora/internal/notify"
	"github.com/rentora/rentora/internal/server/middleware"
)

type CreatePropertyInput struct {
	Body struct {
		Title         string   `json:"title" minLength:"1" maxLength:"255" doc:"Listing title"`
		Description   string   `json:"description,omitempty" doc:"Listing description"`
		Address       string   `json:"address" minLength:"1" maxLength:"512" doc:"Street address"`
		City          string   `json:"city" minLength:"1" maxLength:"128" doc:"City"`
		RentAmount    int64    `json:"rent_amount" minimum:"0" doc:"Monthly rent, minor currency units"`
		DepositAmount int64    `json:"deposit_amount,omitempty" minimum:"0" doc:"Deposit, minor currency units"`
		Bedrooms      int      `json:"bedrooms,omitempty" minimum:"0" doc:"Bedroom count"`
		Bathrooms     int      `json:"bathrooms,omitempty" minimum:"0" doc:"Bathroom count"`
		ImageURLs     []string `json:"image_urls,omitempty" doc:"Image URLs (opaque object-storage references)"`
	}
}

type PropertyOutput struct {
	Body *domain.Property
}

type ListPropertiesInput struct {
	City        string `query:"city" doc:"Filter by city"`
	MinRent     int64  `query:"min_rent" doc:"Minimum rent, minor units"`
	MaxRent     int64  `query:"max_rent" doc:"Maximum rent, minor units"`
	MinBedrooms int    `query:"min_bedrooms" doc:"Minimum bedrooms"`
	Mine        bool   `query:"mine" doc:"Landlords: list own properties regardless of approval"`
	Approval    string `query:"approval" doc:"Admins: filter by approval status"`
}

type ListPropertiesOutput struct {
	Body []*domain.Property
}

type GetPropertyInput struct {
	ID uuid.UUID `path:"id" doc:"Property ID"`
}

type UpdatePropertyInput struct {
	ID   uuid.UUID `path:"id" doc:"Property ID"`
	Body struct {
		Title         string   `json:"title,omitempty" maxLength:"255" doc:"Listing title"`
		Description   *string  `json:"description,omitempty" doc:"Listing description"`
		Address       string   `json:"address,omitempty" maxLength:"512" doc:"Street address"`
		City          string   `json:"city,omitempty" maxLength:"128" doc:"City"`
		RentAmount    *int64   `json:"rent_amount,omitempty" minimum:"0" doc:"Monthly rent, minor units"`
		DepositAmount *int64   `json:"deposit_amount,omitempty" minimum:"0" doc:"Deposit, minor units"`
		Bedrooms      *int     `json:"bedrooms,omitempty" minimum:"0" doc:"Bedroom count"`
		Bathrooms     *int     `json:"bathrooms,omitempty" minimum:"0" doc:"Bathroom count"`
		ImageURLs     []string `json:"image_urls,omitempty" doc:"Image URLs"`
	}
}

type DeletePropertyInput struct {
	ID uuid.UUID `path:"id" doc:"Property ID"`
}

type SetPropertyApprovalInput struct {
	ID   uuid.UUID `path:"id" doc:"Property ID"`
	Body struct {
		Status string `json:"status" enum:"approved,rejected" doc:"Approval decision"`
	}
}

type SetPropertyAvailabilityInput struct {
	ID   uuid.UUID `path:"id" doc:"Property ID"`
	Body struct {
		Availability string `json:"availability" enum:"available,maintenance" doc:"Availability; occupied is contract-driven"`
	}
}

func RegisterPropertyRoutes(api huma.API, store DataStore, sink notify.Sink) {
	huma.Register(api, huma.Operation{
		OperationID: "create-property",
		Method:      http.MethodPost,
		Path:        "/properties",
		Summary:     "Create a property listing",
		Tags:        []string{"Properties"},
	}, func(ctx context.Context, input *CreatePropertyInput) (*PropertyOutput, error) {
		actor, ok := middleware.ActorFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing user context")
		}
		if actor.Role != domain.RoleLandlord {
			return nil, huma.Error403Forbidden("only landlords can create listings")
		}

		now := time.Now()
		p := &domain.Property{
			ID:             uuid.New(),
			LandlordID:     actor.ID,
			Title:          input.Body.Title,
			Description:    input.Body.Description,
			Address:        input.Body.Address,
			City:           input.Body.City,
			RentAmount:     input.Body.RentAmount,
			DepositAmount:  input.Body.DepositAmount,
			Bedrooms:       input.Body.Bedrooms,
			Bathrooms:      input.Body.Bathrooms,
			ImageURLs:      input.Body.ImageURLs,
			Availability:   domain.AvailabilityAvailable,
			ApprovalStatus: domain.ApprovalPending,
			CreatedAt:      now,
			UpdatedAt:      now,
		}

		if err := store.Properties().Create(ctx, p); err != nil {
			return nil, huma.Error500InternalServerError("failed to create property", err)
		}

		return &PropertyOutput{Body: p}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-properties",
		Method:      http.MethodGet,
		Path:        "/properties",
		Summary:     "Browse property listings",
		Tags:        []string{"Properties"},
	}, func(ctx context.Context, input *ListPropertiesInput) (*ListPropertiesOutput, error) {
		actor, ok := middleware.ActorFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing user context")
		}

		filter := domain.PropertyFilter{
			City:        input.City,
			MinRent:     input.MinRent,
			MaxRent:     input.MaxRent,
			MinBedrooms: input.MinBedrooms,
		}

		switch {
		case input.Mine && actor.Role == domain.RoleLandlord:
			filter.LandlordID = actor.ID
		case actor.IsAdmin():
			filter.Approval = domain.ApprovalStatus(input.Approval)
		default:
			// Tenants browse approved listings only.
			filter.Approval = domain.ApprovalApproved
		}

		properties, err := store.Properties().List(ctx, filter)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list properties", err)
		}

		return &ListPropertiesOutput{Body: properties}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-property",
		Method:      http.MethodGet,
		Path:        "/properties/{id}",
		Summary:     "Get a property by ID",
		Tags:        []string{"Properties"},
	}, func(ctx context.Context, input *GetPropertyInput) (*PropertyOutput, error) {
		actor, ok := middleware.ActorFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing user context")
		}

		p, err := store.Properties().GetByID(ctx, input.ID)
		if err != nil {
			return nil, lifecycleError(err, "property not found")
		}

		// Unapproved listings are visible to their landlord and admins only.
		if p.ApprovalStatus != domain.ApprovalApproved && !actor.IsAdmin() && actor.ID != p.LandlordID {
			return nil, huma.Error404NotFound("property not found")
		}

		return &PropertyOutput{Body: p}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-property",
		Method:      http.MethodPut,
		Path:        "/properties/{id}",
		Summary:     "Update a property listing",
		Tags:        []string{"Properties"},
	}, func(ctx context.Context, input *UpdatePropertyInput) (*PropertyOutput, error) {
		actor, ok := middleware.ActorFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing user context")
		}

		p, err := store.Properties().GetByID(ctx, input.ID)
		if err != nil {
			return nil, lifecycleError(err, "property not found")
		}
		if !actor.IsAdmin() && actor.ID != p.LandlordID {
			return nil, huma.Error403Forbidden("not the owning landlord")
		}

		if input.Body.Title != "" {
			p.Title = input.Body.Title
		}
		if input.Body.Description != nil {
			p.Description = *input.Body.Description
		}
		if input.Body.Address != "" {
			p.Address = input.Body.Address
		}
		if input.Body.City != "" {
			p.City = input.Body.City
		}
		if input.Body.RentAmount != nil {
			p.RentAmount = *input.Body.RentAmount
		}
		if input.Body.DepositAmount != nil {
			p.DepositAmount = *input.Body.DepositAmount
		}
		if input.Body.Bedrooms != nil {
			p.Bedrooms = *input.Body.Bedrooms
		}
		if input.Body.Bathrooms != nil {
			p.Bathrooms = *input.Body.Bathrooms
		}
		if input.Body.ImageURLs != nil {
			p.ImageURLs = input.Body.ImageURLs
		}
		p.UpdatedAt = time.Now()

		if err := store.Properties().Update(ctx, p); err != nil {
			return nil, huma.Error500InternalServerError("failed to update property", err)
		}

		return &PropertyOutput{Body: p}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-property",
		Method:      http.MethodDelete,
		Path:        "/properties/{id}",
		Summary:     "Delete a property listing",
		Tags:        []string{"Properties"},
	}, func(ctx context.Context, input *DeletePropertyInput) (*struct{}, error) {
		actor, ok := middleware.ActorFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing user context")
		}

		p, err := store.Properties().GetByID(ctx, input.ID)
		if err != nil {
			return nil, lifecycleError(err, "property not found")
		}
		if !actor.IsAdmin() && actor.ID != p.LandlordID {
			return nil, huma.Error403Forbidden("not the owning landlord")
		}
		if p.Availability == domain.AvailabilityOccupied {
			return nil, huma.Error409Conflict("property has an active contract")
		}

		if err := store.Properties().Delete(ctx, input.ID); err != nil {
			return nil, lifecycleError(err, "failed to delete property")
		}

		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "set-property-approval",
		Method:      http.MethodPatch,
		Path:        "/properties/{id}/approval",
		Summary:     "Approve or reject a property listing (admin)",
		Tags:        []string{"Properties"},
	}, func(ctx context.Context, input *SetPropertyApprovalInput) (*PropertyOutput, error) {
		actor, ok := middleware.ActorFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing user context")
		}
		if !actor.IsAdmin() {
			return nil, huma.Error403Forbidden("admin role required")
		}

		p, err := store.Properties().GetByID(ctx, input.ID)
		if err != nil {
			return nil, lifecycleError(err, "property not found")
		}

		status := domain.ApprovalStatus(input.Body.Status)
		if err := store.Properties().SetApproval(ctx, input.ID, status); err != nil {
			return nil, lifecycleError(err, "failed to update approval")
		}
		p.ApprovalStatus = status
		p.UpdatedAt = time.Now()

		eventType := domain.NotifyPropertyApproved
		title := "Listing approved"
		message := "Your property listing is now publicly visible."
		if status == domain.ApprovalRejected {
			eventType = domain.NotifyPropertyRejected
			title = "Listing rejected"
			message = "Your property listing was rejected."
		}
		sink.Notify(ctx, notify.Event{
			UserID:  p.LandlordID,
			Type:    eventType,
			Title:   title,
			Message: message,
			Link:    "/properties/" + p.ID.String(),
			Metadata: map[string]any{
				"property_id": p.ID.String(),
			},
		})

		return &PropertyOutput{Body: p}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "set-property-availability",
		Method:      http.MethodPatch,
		Path:        "/properties/{id}/availability",
		Summary:     "Set availability (available or maintenance)",
		Tags:        []string{"Properties"},
	}, func(ctx context.Context, input *SetPropertyAvailabilityInput) (*PropertyOutput, error) {
		actor, ok := middleware.ActorFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing user context")
		}

		p, err := store.Properties().GetByID(ctx, input.ID)
		if err != nil {
			return nil, lifecycleError(err, "property not found")
		}
		if !actor.IsAdmin() && actor.ID != p.LandlordID {
			return nil, huma.Error403Forbidden("not the owning landlord")
		}
		// Occupied is owned by the contract lifecycle.
		if p.Availability == domain.AvailabilityOccupied {
			return nil, huma.Error409Conflict("property has an active contract")
		}

		availability := domain.Availability(input.Body.Availability)
		if err := store.Properties().SetAvailability(ctx, input.ID, availability); err != nil {
			return nil, lifecycleError(err, "failed to update availability")
		}
		p.Availability = availability
		p.UpdatedAt = time.Now()

		return &PropertyOutput{Body: p}, nil
	})
}
