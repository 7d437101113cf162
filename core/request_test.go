package core

import (
	"strings"
	"testing"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"user@example.com",
		"first.last@sub.example.co",
		"User Name <named@example.com>",
	}
	for _, email := range valid {
		if err := ValidateEmail(email); err != nil {
			t.Errorf("expected %q valid, got %v", email, err)
		}
	}

	invalid := []string{"", "plain", "@example.com", "user@"}
	for _, email := range invalid {
		if err := ValidateEmail(email); err == nil {
			t.Errorf("expected %q invalid", email)
		}
	}
}

func TestValidateName(t *testing.T) {
	if err := ValidateName("Ada Lovelace"); err != nil {
		t.Errorf("expected valid name, got %v", err)
	}
	if err := ValidateName("   "); err == nil {
		t.Error("expected whitespace-only name rejected")
	}
	if err := ValidateName(strings.Repeat("x", maxNameLength+1)); err == nil {
		t.Error("expected overlong name rejected")
	}
}

func TestValidateDateOfBirth(t *testing.T) {
	if err := ValidateDateOfBirth("1990-05-01"); err != nil {
		t.Errorf("expected valid date, got %v", err)
	}
	if err := ValidateDateOfBirth("0001-01-01"); err != nil {
		t.Errorf("expected placeholder date valid, got %v", err)
	}

	invalid := []string{"", "01.05.1990", "1990-13-01", "2999-01-01"}
	for _, dob := range invalid {
		if err := ValidateDateOfBirth(dob); err == nil {
			t.Errorf("expected %q invalid", dob)
		}
	}
}
