package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Abid-Al-Labib/erp-base-sub000/api/responses"
	"github.com/Abid-Al-Labib/erp-base-sub000/api/validators"
	"github.com/Abid-Al-Labib/erp-base-sub000/internal/orders"
	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/enums"
	pkgerrors "github.com/Abid-Al-Labib/erp-base-sub000/pkg/errors"
	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/logger"
)

func pathLineItemID(r *http.Request) (uuid.UUID, error) {
	return validators.ParsePathUUID(chi.URLParam(r, "lineItemID"), "lineItemID")
}

type approveRequest struct {
	Kind string `json:"kind" validate:"required"`
}

func LineItemApprove(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lineItemID, err := pathLineItemID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload approveRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		kind := orders.ApprovalKind(payload.Kind)
		if !kind.IsValid() {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid approval kind"))
			return
		}

		if err := svc.Approve(r.Context(), orders.ApproveInput{LineItemID: lineItemID, Kind: kind, ActorID: actorID}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "approved"})
	}
}

type quotationRequest struct {
	Brand    string `json:"brand" validate:"required,min=1"`
	Vendor   string `json:"vendor" validate:"required,min=1"`
	UnitCost string `json:"unit_cost" validate:"required"`
}

func LineItemQuotation(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lineItemID, err := pathLineItemID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload quotationRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		unitCost, err := decimalFromString(payload.UnitCost, "unit_cost")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := orders.QuotationInput{
			LineItemID: lineItemID,
			Brand:      payload.Brand,
			Vendor:     payload.Vendor,
			UnitCost:   unitCost,
			ActorID:    actorID,
		}
		if err := svc.SetQuotation(r.Context(), input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "quoted"})
	}
}

type takeFromStorageRequest struct {
	Qty int `json:"qty" validate:"required,min=1"`
}

func LineItemTakeFromStorage(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lineItemID, err := pathLineItemID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload takeFromStorageRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := orders.TakeFromStorageInput{LineItemID: lineItemID, Qty: payload.Qty, ActorID: actorID}
		if err := svc.TakeFromStorage(r.Context(), input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "taken"})
	}
}

type setDateRequest struct {
	Kind string     `json:"kind" validate:"required,oneof=purchased sent received"`
	Date *time.Time `json:"date,omitempty"`
}

func LineItemSetDate(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lineItemID, err := pathLineItemID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload setDateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		date := time.Now().UTC()
		if payload.Date != nil {
			date = payload.Date.UTC()
		}

		input := orders.SetDateInput{
			LineItemID: lineItemID,
			Kind:       orders.DateKind(payload.Kind),
			Date:       date,
			ActorID:    actorID,
		}
		if err := svc.SetDate(r.Context(), input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "dated"})
	}
}

type setQuantityRequest struct {
	Qty int `json:"qty" validate:"required,min=1"`
}

func LineItemSetQuantity(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lineItemID, err := pathLineItemID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload setQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := orders.SetQuantityInput{LineItemID: lineItemID, Qty: payload.Qty, ActorID: actorID}
		if err := svc.SetQuantity(r.Context(), input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "updated"})
	}
}

type setUnstableTypeRequest struct {
	UnstableType string `json:"unstable_type" validate:"required"`
}

func LineItemSetUnstableType(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lineItemID, err := pathLineItemID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload setUnstableTypeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		unstableType, err := enums.ParseUnstableType(payload.UnstableType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid unstable type"))
			return
		}

		input := orders.SetUnstableTypeInput{LineItemID: lineItemID, UnstableType: unstableType, ActorID: actorID}
		if err := svc.SetUnstableType(r.Context(), input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "updated"})
	}
}

type setNoteRequest struct {
	Note *string `json:"note"`
}

func LineItemSetNote(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lineItemID, err := pathLineItemID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload setNoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := orders.SetNoteInput{LineItemID: lineItemID, Note: payload.Note, ActorID: actorID}
		if err := svc.SetNote(r.Context(), input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "updated"})
	}
}

func LineItemRequestSample(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return sampleHandler(svc.RequestSample, logg, "sample_requested")
}

func LineItemApproveSample(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return sampleHandler(svc.ApproveSample, logg, "sample_approved")
}

func sampleHandler(call func(ctx context.Context, input orders.SampleInput) error, logg *logger.Logger, status string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lineItemID, err := pathLineItemID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := call(r.Context(), orders.SampleInput{LineItemID: lineItemID, ActorID: actorID}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": status})
	}
}

// LineItemActions lists the actions currently legal on the line item, for
// the presentation layer to render controls from.
func LineItemActions(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lineItemID, err := pathLineItemID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actions, err := svc.VisibleActions(r.Context(), lineItemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"actions": actions})
	}
}

func LineItemDelete(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lineItemID, err := pathLineItemID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := orders.DeleteLineItemInput{LineItemID: lineItemID, ActorID: actorID}
		if err := svc.DeleteLineItem(r.Context(), input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
