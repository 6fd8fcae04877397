package models

import (
	"testing"
)

func TestHasRole(t *testing.T) {
	admin := &User{Role: RoleAdmin}
	employee := &User{Role: RoleEmployee}

	if !HasRole(admin, RoleAdmin) {
		t.Error("Expected admin to have admin role")
	}

	if !HasRole(admin, RoleAdmin, RoleManager) {
		t.Error("Expected admin to match an allowed set containing admin")
	}

	if HasRole(employee, RoleAdmin, RoleManager) {
		t.Error("Expected employee not to match admin/manager set")
	}

	if HasRole(nil, RoleAdmin) {
		t.Error("Expected nil user to have no roles")
	}
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole("gerente")
	if err != nil {
		t.Fatalf("Failed to parse valid role: %v", err)
	}
	if role != RoleManager {
		t.Errorf("Expected gerente, got %s", role)
	}

	if _, err := ParseRole("superuser"); err == nil {
		t.Error("Expected error for unknown role")
	}
}

func TestUserPassword(t *testing.T) {
	user := &User{}
	if err := user.SetPassword("s3cret-pw"); err != nil {
		t.Fatalf("Failed to set password: %v", err)
	}

	if user.PasswordHash == "s3cret-pw" {
		t.Error("Expected password to be hashed, not stored in plaintext")
	}

	if !user.CheckPassword("s3cret-pw") {
		t.Error("Expected correct password to verify")
	}

	if user.CheckPassword("wrong-pw") {
		t.Error("Expected wrong password to fail verification")
	}
}

func TestClientFormValidate(t *testing.T) {
	form := &ClientForm{
		Name:     "Fazenda Boa Vista",
		Document: "123.456.789-09",
	}

	if errors := form.Validate(); len(errors) != 0 {
		t.Errorf("Expected valid form, got errors: %v", errors)
	}

	// Missing name
	form = &ClientForm{Document: "12345678909"}
	if errors := form.Validate(); len(errors) == 0 {
		t.Error("Expected error for missing name")
	}

	// Bad document length
	form = &ClientForm{Name: "Cliente", Document: "12345"}
	if errors := form.Validate(); len(errors) == 0 {
		t.Error("Expected error for invalid document")
	}
}

func TestUserFormValidate(t *testing.T) {
	form := &UserForm{
		Username: "alice",
		Name:     "Alice Souza",
		Email:    "alice@example.com",
		Password: "password1",
		Role:     "admin",
	}

	if errors := form.Validate(true); len(errors) != 0 {
		t.Errorf("Expected valid form, got errors: %v", errors)
	}

	// Password optional when not required
	form.Password = ""
	if errors := form.Validate(false); len(errors) != 0 {
		t.Errorf("Expected valid form without password, got errors: %v", errors)
	}

	// But required when creating
	if errors := form.Validate(true); len(errors) == 0 {
		t.Error("Expected error for missing password on create")
	}

	// Invalid role
	form.Password = "password1"
	form.Role = "root"
	if errors := form.Validate(true); len(errors) == 0 {
		t.Error("Expected error for invalid role")
	}
}

func TestParseVehicleStatus(t *testing.T) {
	status, ok := ParseVehicleStatus("em_manutencao")
	if !ok || status != VehicleStatusMaintenance {
		t.Errorf("Expected em_manutencao to parse, got %s (%v)", status, ok)
	}

	if _, ok := ParseVehicleStatus("vendido"); ok {
		t.Error("Expected unknown status to be rejected")
	}

	// Status values and the maintenance record type live side by side
	record := VehicleMaintenance{VehicleID: 1, Description: "Troca de óleo"}
	if record.VehicleID != 1 {
		t.Error("Expected maintenance record to keep its vehicle")
	}
}

func TestFormatDocument(t *testing.T) {
	if got := FormatDocument("12345678909"); got != "123.456.789-09" {
		t.Errorf("Expected CPF format, got %s", got)
	}

	if got := FormatDocument("12345678000195"); got != "12.345.678/0001-95" {
		t.Errorf("Expected CNPJ format, got %s", got)
	}

	// Invalid length returned as is
	if got := FormatDocument("12345"); got != "12345" {
		t.Errorf("Expected invalid document unchanged, got %s", got)
	}
}

func TestFormatCurrency(t *testing.T) {
	if got := FormatCurrency(1234.5); got != "R$ 1.234,50" {
		t.Errorf("Expected R$ 1.234,50, got %s", got)
	}

	if got := FormatCurrency(0); got != "R$ 0,00" {
		t.Errorf("Expected R$ 0,00, got %s", got)
	}

	if got := FormatCurrency(1234567.89); got != "R$ 1.234.567,89" {
		t.Errorf("Expected R$ 1.234.567,89, got %s", got)
	}
}
