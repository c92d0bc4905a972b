package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/Abid-Al-Labib/erp-base-sub000/api/responses"
	"github.com/Abid-Al-Labib/erp-base-sub000/api/validators"
	"github.com/Abid-Al-Labib/erp-base-sub000/internal/inventory"
	pkgerrors "github.com/Abid-Al-Labib/erp-base-sub000/pkg/errors"
	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/logger"
	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/pagination"
)

// StorageParts lists a factory's storage pool, keyset-paged on part id.
func StorageParts(repo *inventory.StorageRepository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		factoryID, err := validators.ParseQueryUUID(r, "factory_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if factoryID == uuid.Nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "factory_id is required"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var afterPartID *uuid.UUID
		if after, err := validators.ParseQueryUUID(r, "after_part_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		} else if after != uuid.Nil {
			afterPartID = &after
		}

		rows, err := repo.List(factoryID, afterPartID, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"parts": rows})
	}
}

// MachineParts lists the pool installed on a single machine.
func MachineParts(repo *inventory.MachineRepository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		machineID, err := validators.ParseQueryUUID(r, "machine_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if machineID == uuid.Nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "machine_id is required"))
			return
		}

		rows, err := repo.ListByMachine(machineID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"parts": rows})
	}
}

// DamagedParts lists a factory's damaged pool.
func DamagedParts(repo *inventory.DamagedRepository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		factoryID, err := validators.ParseQueryUUID(r, "factory_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if factoryID == uuid.Nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "factory_id is required"))
			return
		}

		rows, err := repo.ListByFactory(factoryID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"parts": rows})
	}
}
