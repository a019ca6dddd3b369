package storage

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/miosync-masa/digit-consonance/internal/common"
	"github.com/miosync-masa/digit-consonance/internal/model"
)

func TestValidateContext(t *testing.T) {
	tests := []struct {
		ctx     context.Context
		name    string
		wantErr bool
	}{
		{
			name:    "valid context",
			ctx:     context.Background(),
			wantErr: false,
		},
		{
			name:    "nil context",
			ctx:     nil,
			wantErr: true,
		},
		{
			name: "canceled context still valid",
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			}(),
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateContext(tt.ctx)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateContext() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateString(t *testing.T) {
	tests := []struct {
		name      string
		str       string
		paramName string
		wantErr   bool
	}{
		{
			name:      "valid string",
			str:       "test",
			paramName: "param",
			wantErr:   false,
		},
		{
			name:      "empty string",
			str:       "",
			paramName: "param",
			wantErr:   true,
		},
		{
			name:      "whitespace only",
			str:       "   ",
			paramName: "param",
			wantErr:   true,
		},
		{
			name:      "string with spaces",
			str:       "  test  ",
			paramName: "param",
			wantErr:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateString(tt.str, tt.paramName)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateString() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !strings.Contains(err.Error(), tt.paramName) {
				t.Errorf("validateString() error should contain param name %s, got %v", tt.paramName, err)
			}
		})
	}
}


func TestValidateZeroTable(t *testing.T) {
	valid := testTable(gamma1, gamma2)

	missingGamma := testTable(gamma1)
	missingGamma.Zeros[0].Gamma = model.Decimal{}

	badIndex := testTable(gamma1)
	badIndex.Zeros[0].Index = 0

	nanGamma := testTable(gamma1)
	nanGamma.Zeros[0].Gamma = model.Decimal{Text: "NaN", Float: math.NaN()}

	infGamma := testTable(gamma1)
	infGamma.Zeros[0].Gamma = model.Decimal{Text: "Inf", Float: math.Inf(1)}

	negativeWeight := testTable(gamma1)
	negativeWeight.Zeros[0].Weight = model.MustDecimal("-5")

	tests := []struct {
		wantErr error
		table   *model.ZeroTable
		name    string
	}{
		{name: "valid table", table: valid},
		{name: "nan gamma", table: nanGamma, wantErr: common.ErrMalformedZeroFile},
		{name: "infinite gamma", table: infGamma, wantErr: common.ErrMalformedZeroFile},
		{name: "negative weight", table: negativeWeight, wantErr: common.ErrMalformedZeroFile},
		{name: "nil table", table: nil, wantErr: ErrNilParameter},
		{name: "empty table", table: &model.ZeroTable{}, wantErr: common.ErrEmptyZeroSet},
		{name: "missing gamma", table: missingGamma, wantErr: common.ErrMalformedZeroFile},
		{name: "non-positive index", table: badIndex, wantErr: common.ErrMalformedZeroFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateZeroTable(tt.table)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("validateZeroTable() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("validateZeroTable() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
