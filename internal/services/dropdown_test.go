package services

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/material-inventory-backend/internal/domain"
	"github.com/yungbote/material-inventory-backend/internal/platform/apierr"
)

func wantAPIError(t *testing.T, err error, status int) *apierr.Error {
	t.Helper()
	if err == nil {
		t.Fatalf("expected an error with status %d, got nil", status)
	}
	apiErr := apierr.From(err)
	if apiErr.Status != status {
		t.Fatalf("status = %d (%v), want %d", apiErr.Status, err, status)
	}
	return apiErr
}

func TestDropdownCreateValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.dropdowns.Create(ctx, domain.DropdownTypeDivision, "", "x")
	apiErr := wantAPIError(t, err, http.StatusBadRequest)
	if apiErr.Error() != "Please provide type, label, and value" {
		t.Fatalf("message = %q", apiErr.Error())
	}

	_, err = env.dropdowns.Create(ctx, "warehouse", "Label", "value")
	apiErr = wantAPIError(t, err, http.StatusBadRequest)
	if apiErr.Error() != `Type must be "division" or "placement"` {
		t.Fatalf("message = %q", apiErr.Error())
	}
}

func TestDropdownCreateConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.mustCreateDropdown(t, domain.DropdownTypeDivision, "Metals", "metals")

	_, err := env.dropdowns.Create(ctx, domain.DropdownTypeDivision, "Metals Again", "metals")
	apiErr := wantAPIError(t, err, http.StatusConflict)
	if !strings.Contains(apiErr.Error(), `"metals"`) {
		t.Fatalf("conflict message should name the value, got %q", apiErr.Error())
	}

	// Same value under the other vocabulary is allowed.
	if _, err := env.dropdowns.Create(ctx, domain.DropdownTypePlacement, "Metals", "metals"); err != nil {
		t.Fatalf("cross-type create: %v", err)
	}
}

func TestDropdownListByType(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.mustCreateDropdown(t, domain.DropdownTypeDivision, "Zeta", "zeta")
	env.mustCreateDropdown(t, domain.DropdownTypeDivision, "Alpha", "alpha")

	_, err := env.dropdowns.ListByType(ctx, "all")
	wantAPIError(t, err, http.StatusBadRequest)

	options, err := env.dropdowns.ListByType(ctx, domain.DropdownTypeDivision)
	if err != nil {
		t.Fatalf("ListByType: %v", err)
	}
	if len(options) != 2 || options[0].Label != "Alpha" {
		t.Fatalf("expected [Alpha Zeta], got %d options", len(options))
	}
}

func TestDropdownUpdate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	option := env.mustCreateDropdown(t, domain.DropdownTypeDivision, "Metals", "metals")
	env.mustCreateDropdown(t, domain.DropdownTypeDivision, "Plastics", "plastics")

	// Empty arguments leave fields untouched.
	updated, err := env.dropdowns.Update(ctx, option.ID, "Heavy Metals", "")
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Label != "Heavy Metals" || updated.Value != "metals" {
		t.Fatalf("updated = %s/%s, want Heavy Metals/metals", updated.Label, updated.Value)
	}

	// Moving onto another option's value conflicts.
	_, err = env.dropdowns.Update(ctx, option.ID, "", "plastics")
	wantAPIError(t, err, http.StatusConflict)

	_, err = env.dropdowns.Update(ctx, uuid.New(), "X", "")
	wantAPIError(t, err, http.StatusNotFound)
}

func TestDropdownDeleteGuardsReferences(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	division := env.mustCreateDropdown(t, domain.DropdownTypeDivision, "Metals", "metals")
	placement := env.mustCreateDropdown(t, domain.DropdownTypePlacement, "Shelf", "shelf")
	env.mustCreateMaterial(t, "Steel Rod", "ST-100", division.ID, placement.ID)

	err := env.dropdowns.Delete(ctx, division.ID)
	apiErr := wantAPIError(t, err, http.StatusConflict)
	want := "Cannot delete. This division is used by 1 material(s) via divisionId"
	if apiErr.Error() != want {
		t.Fatalf("message = %q, want %q", apiErr.Error(), want)
	}

	err = env.dropdowns.Delete(ctx, placement.ID)
	apiErr = wantAPIError(t, err, http.StatusConflict)
	if !strings.Contains(apiErr.Error(), "placementId") {
		t.Fatalf("placement conflict should name placementId, got %q", apiErr.Error())
	}
}

func TestDropdownDeleteUnreferenced(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	option := env.mustCreateDropdown(t, domain.DropdownTypeDivision, "Metals", "metals")
	if err := env.dropdowns.Delete(ctx, option.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	err := env.dropdowns.Delete(ctx, option.ID)
	apiErr := wantAPIError(t, err, http.StatusNotFound)
	if apiErr.Error() != "Dropdown not found" {
		t.Fatalf("message = %q", apiErr.Error())
	}
}

func TestDropdownListAll(t *testing.T) {
	env := newTestEnv(t)

	env.mustCreateDropdown(t, domain.DropdownTypeDivision, "Metals", "metals")
	env.mustCreateDropdown(t, domain.DropdownTypePlacement, "Shelf", "shelf")
	env.mustCreateDropdown(t, domain.DropdownTypePlacement, "Bin", "bin")

	options, err := env.dropdowns.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(options.Divisions) != 1 || len(options.Placements) != 2 {
		t.Fatalf("divisions = %d placements = %d, want 1/2", len(options.Divisions), len(options.Placements))
	}
}
