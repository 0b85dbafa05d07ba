package tests

import (
	"math"
	"testing"

	"laundry/internal/domain"
	"laundry/internal/service"
)

func TestDistanceKnownValues(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		a, b      domain.Coordinate
		wantKm    float64
		tolerance float64
	}{
		{
			name:      "same point",
			a:         domain.Coordinate{Lat: 12.9716, Lng: 77.5946},
			b:         domain.Coordinate{Lat: 12.9716, Lng: 77.5946},
			wantKm:    0,
			tolerance: 0.001,
		},
		{
			name:      "one degree of latitude",
			a:         domain.Coordinate{Lat: 0, Lng: 0},
			b:         domain.Coordinate{Lat: 1, Lng: 0},
			wantKm:    111.19,
			tolerance: 0.5,
		},
		{
			name:      "bangalore to chennai",
			a:         domain.Coordinate{Lat: 12.9716, Lng: 77.5946},
			b:         domain.Coordinate{Lat: 13.0827, Lng: 80.2707},
			wantKm:    290,
			tolerance: 10,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := service.Distance(tc.a, tc.b)
			if math.Abs(got-tc.wantKm) > tc.tolerance {
				t.Errorf("Distance() = %.3f km, want %.3f +/- %.3f", got, tc.wantKm, tc.tolerance)
			}
			// Symmetry.
			if back := service.Distance(tc.b, tc.a); math.Abs(back-got) > 1e-9 {
				t.Errorf("Distance is not symmetric: %.9f vs %.9f", got, back)
			}
		})
	}
}

func TestValidCoordinate(t *testing.T) {
	t.Parallel()

	valid := []domain.Coordinate{
		{Lat: 0, Lng: 0},
		{Lat: 90, Lng: 180},
		{Lat: -90, Lng: -180},
		{Lat: 12.9716, Lng: 77.5946},
	}
	for _, c := range valid {
		if !service.ValidCoordinate(c) {
			t.Errorf("expected %+v to be valid", c)
		}
	}

	invalid := []domain.Coordinate{
		{Lat: 90.0001, Lng: 0},
		{Lat: -91, Lng: 0},
		{Lat: 0, Lng: 180.0001},
		{Lat: 0, Lng: -181},
		{Lat: math.NaN(), Lng: 0},
		{Lat: 0, Lng: math.Inf(1)},
	}
	for _, c := range invalid {
		if service.ValidCoordinate(c) {
			t.Errorf("expected %+v to be invalid", c)
		}
	}
}

func TestGenerateOTP(t *testing.T) {
	t.Parallel()

	for i := 0; i < 50; i++ {
		otp, err := service.GenerateOTP(service.DefaultOTPLength)
		if err != nil {
			t.Fatalf("GenerateOTP failed: %v", err)
		}
		if len(otp) != service.DefaultOTPLength {
			t.Fatalf("expected %d digits, got %q", service.DefaultOTPLength, otp)
		}
		if !isDigits(otp) {
			t.Fatalf("expected numeric code, got %q", otp)
		}
	}

	otp, err := service.GenerateOTP(4)
	if err != nil {
		t.Fatalf("GenerateOTP failed: %v", err)
	}
	if len(otp) != 4 {
		t.Errorf("expected a 4-digit code, got %q", otp)
	}
}
