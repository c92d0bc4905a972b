package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Abid-Al-Labib/erp-base-sub000/api/middleware"
	"github.com/Abid-Al-Labib/erp-base-sub000/api/responses"
	"github.com/Abid-Al-Labib/erp-base-sub000/api/validators"
	"github.com/Abid-Al-Labib/erp-base-sub000/internal/orders"
	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/enums"
	pkgerrors "github.com/Abid-Al-Labib/erp-base-sub000/pkg/errors"
	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/logger"
	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/pagination"
)

func requireActor(r *http.Request) (uuid.UUID, error) {
	actorID, ok := middleware.ActorID(r.Context())
	if !ok {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor context missing")
	}
	return actorID, nil
}

func pathOrderID(r *http.Request) (uuid.UUID, error) {
	return validators.ParsePathUUID(chi.URLParam(r, "orderID"), "orderID")
}

type createLineItemRequest struct {
	PartID       uuid.UUID `json:"part_id" validate:"required"`
	Qty          int       `json:"qty" validate:"required,min=1"`
	InStorage    bool      `json:"in_storage"`
	UnstableType *string   `json:"unstable_type,omitempty"`
	Note         *string   `json:"note,omitempty"`
}

type createOrderRequest struct {
	OrderType          string                  `json:"order_type" validate:"required"`
	FactoryID          uuid.UUID               `json:"factory_id" validate:"required"`
	MachineID          *uuid.UUID              `json:"machine_id,omitempty"`
	SrcFactoryID       *uuid.UUID              `json:"src_factory_id,omitempty"`
	ProjectComponentID *uuid.UUID              `json:"project_component_id,omitempty"`
	Note               *string                 `json:"note,omitempty"`
	Items              []createLineItemRequest `json:"items" validate:"required,min=1,dive"`
}

func (req createOrderRequest) toInput(actorID uuid.UUID) (orders.CreateOrderInput, error) {
	orderType, err := enums.ParseOrderType(req.OrderType)
	if err != nil {
		return orders.CreateOrderInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order type")
	}

	items := make([]orders.CreateLineItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		lineItem := orders.CreateLineItemInput{
			PartID:    item.PartID,
			Qty:       item.Qty,
			InStorage: item.InStorage,
			Note:      item.Note,
		}
		if item.UnstableType != nil {
			parsed, err := enums.ParseUnstableType(*item.UnstableType)
			if err != nil {
				return orders.CreateOrderInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid unstable type")
			}
			lineItem.UnstableType = &parsed
		}
		items = append(items, lineItem)
	}

	return orders.CreateOrderInput{
		OrderType:          orderType,
		FactoryID:          req.FactoryID,
		MachineID:          req.MachineID,
		SrcFactoryID:       req.SrcFactoryID,
		ProjectComponentID: req.ProjectComponentID,
		Note:               req.Note,
		ActorID:            actorID,
		Items:              items,
	}, nil
}

func OrderCreate(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput(actorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

func OrderGet(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := pathOrderID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Get(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

func OrderList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := orders.ListFilter{}

		if factoryID, err := validators.ParseQueryUUID(r, "factory_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		} else if factoryID != uuid.Nil {
			filter.FactoryID = &factoryID
		}

		if statusID, err := validators.ParseQueryUUID(r, "status_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		} else if statusID != uuid.Nil {
			filter.StatusID = &statusID
		}

		if raw := strings.TrimSpace(r.URL.Query().Get("order_type")); raw != "" {
			orderType, err := enums.ParseOrderType(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order type"))
				return
			}
			filter.OrderType = &orderType
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filter.Page = pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}

		results, next, err := svc.List(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		body := map[string]any{"orders": results}
		if next != nil {
			body["next_cursor"] = pagination.EncodeCursor(*next)
		}
		responses.WriteSuccess(w, body)
	}
}

func OrderTracker(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := pathOrderID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entries, err := svc.ListTracker(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"entries": entries})
	}
}

func OrderAdvance(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := pathOrderID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := svc.Advance(r.Context(), orders.AdvanceInput{OrderID: orderID, ActorID: actorID})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, status)
	}
}

func OrderRevert(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := pathOrderID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := svc.Revert(r.Context(), orders.RevertInput{OrderID: orderID, ActorID: actorID})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, status)
	}
}

func OrderDelete(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := pathOrderID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), orderID, actorID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

type approveAllRequest struct {
	Kind string `json:"kind" validate:"required"`
}

func OrderApproveAll(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := pathOrderID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload approveAllRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		kind := orders.ApprovalKind(payload.Kind)
		if !kind.IsValid() {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid approval kind"))
			return
		}

		if err := svc.ApproveAll(r.Context(), orders.ApproveAllInput{OrderID: orderID, Kind: kind, ActorID: actorID}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "approved"})
	}
}

// decimalFromString keeps cost parsing in one place so the quotation and
// any future money-bearing endpoints reject malformed values identically.
func decimalFromString(raw, field string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Decimal{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid decimal value").WithDetails(map[string]any{"field": field})
	}
	if value.IsNegative() {
		return decimal.Decimal{}, pkgerrors.New(pkgerrors.CodeValidation, "value must not be negative").WithDetails(map[string]any{"field": field})
	}
	return value, nil
}
