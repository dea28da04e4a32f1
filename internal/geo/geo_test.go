package geo

import (
	"errors"
	"testing"
)

func TestPosition3DFromString_ValidWithElevation(t *testing.T) {
	pos, err := Position3DFromString("100.5,200.25,50.0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pos.X != 100.5 || pos.Y != 200.25 || pos.Z != 50.0 {
		t.Errorf("got %+v", pos)
	}
}

func TestPosition3DFromString_ValidWithoutElevation(t *testing.T) {
	pos, err := Position3DFromString("100.5,200.25")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pos.X != 100.5 || pos.Y != 200.25 || pos.Z != 0 {
		t.Errorf("got %+v", pos)
	}
}

func TestPosition3DFromString_NegativeCoordinates(t *testing.T) {
	pos, err := Position3DFromString("-100.5,-200.25,-50.0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pos.X != -100.5 || pos.Y != -200.25 || pos.Z != -50.0 {
		t.Errorf("got %+v", pos)
	}
}

func TestPosition3DFromString_ScientificNotation(t *testing.T) {
	pos, err := Position3DFromString("1e2,2e3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pos.X != 100 || pos.Y != 2000 {
		t.Errorf("got %+v", pos)
	}
}

func TestPosition3DFromString_ExtraComponentsIgnored(t *testing.T) {
	pos, err := Position3DFromString("100.5,200.25,50.0,extra,ignored")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pos.X != 100.5 || pos.Y != 200.25 || pos.Z != 50.0 {
		t.Errorf("got %+v", pos)
	}
}

func TestPosition3DFromString_InvalidTooFewComponents(t *testing.T) {
	_, err := Position3DFromString("100.5")
	if !errors.Is(err, ErrInvalidCoordinates) {
		t.Errorf("expected ErrInvalidCoordinates, got %v", err)
	}
}

func TestPosition3DFromString_InvalidEmptyString(t *testing.T) {
	_, err := Position3DFromString("")
	if !errors.Is(err, ErrInvalidCoordinates) {
		t.Errorf("expected ErrInvalidCoordinates, got %v", err)
	}
}

func TestPosition3DFromString_InvalidComponent(t *testing.T) {
	_, err := Position3DFromString("abc,200.25")
	if !errors.Is(err, ErrInvalidCoordinates) {
		t.Errorf("expected ErrInvalidCoordinates, got %v", err)
	}
}

func TestPosition3DFromString_InvalidElevation(t *testing.T) {
	_, err := Position3DFromString("100.5,200.25,invalid")
	if !errors.Is(err, ErrInvalidCoordinates) {
		t.Errorf("expected ErrInvalidCoordinates, got %v", err)
	}
}

