package game

import (
	"errors"
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestTransportCatalog_Get(t *testing.T) {
	c := NewTransportCatalog()

	tests := map[string]struct {
		name     string
		expSpeed float64
		expErr   error
	}{
		"foot":             {name: "foot", expSpeed: 5},
		"bike":             {name: "bike", expSpeed: 15},
		"sedan":            {name: "sedan", expSpeed: 60},
		"sport":            {name: "sport", expSpeed: 120},
		"plane":            {name: "plane", expSpeed: 500},
		"case insensitive": {name: "SeDaN", expSpeed: 60},
		"unknown":          {name: "submarine", expErr: ErrTransportNotFound},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := c.Get(tt.name)

			if tt.expErr != nil {
				if !errors.Is(err, tt.expErr) {
					t.Errorf("error = %v, expected %v", err, tt.expErr)
				}
				return
			}

			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			testutil.AssertEqual(t, "speed", got.SpeedKmh, tt.expSpeed)
		})
	}
}

func TestTransport_FuelNeeded(t *testing.T) {
	c := NewTransportCatalog()

	tests := map[string]struct {
		transport string
		distance  float64
		exp       float64
	}{
		"foot burns nothing":  {transport: "foot", distance: 200, exp: 0},
		"bike burns nothing":  {transport: "bike", distance: 250, exp: 0},
		"sedan over 200km":    {transport: "sedan", distance: 200, exp: 20},
		"plane over 150km":    {transport: "plane", distance: 150, exp: 225},
		"negative clamps":     {transport: "sedan", distance: -50, exp: 0},
		"sport zero distance": {transport: "sport", distance: 0, exp: 0},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			tr, err := c.Get(tt.transport)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "fuel", tr.FuelNeeded(tt.distance), tt.exp)
		})
	}
}

func TestTransport_Powered(t *testing.T) {
	c := NewTransportCatalog()

	expected := map[string]bool{
		"foot":  false,
		"bike":  false,
		"sedan": true,
		"sport": true,
		"plane": true,
	}

	for name, powered := range expected {
		tr, err := c.Get(name)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		testutil.AssertEqual(t, name, tr.Powered(), powered)
	}

	testutil.AssertEqual(t, "catalog size", len(c.All()), 5)
}
