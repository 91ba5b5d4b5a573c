package svg2png

import (
	"errors"
	"testing"
)

func TestRasterConfigWithDefaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   RasterConfig
		want RasterConfig
	}{
		{
			name: "zero values filled",
			in:   RasterConfig{InputRoot: "/in"},
			want: RasterConfig{InputRoot: "/in", OutputRoot: "/in", DPI: DefaultDPI, Command: DefaultCommand},
		},
		{
			name: "explicit values kept",
			in:   RasterConfig{InputRoot: "/in", OutputRoot: "/out", DPI: 72, Command: "rsvg-convert"},
			want: RasterConfig{InputRoot: "/in", OutputRoot: "/out", DPI: 72, Command: "rsvg-convert"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.in.withDefaults(); got != tt.want {
				t.Errorf("withDefaults() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRasterConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     RasterConfig
		wantErr error
	}{
		{
			name: "valid",
			cfg:  RasterConfig{InputRoot: "/in", DPI: 300, Command: "inkscape"},
		},
		{
			name:    "dpi below minimum",
			cfg:     RasterConfig{InputRoot: "/in", DPI: 0, Command: "inkscape"},
			wantErr: ErrInvalidDPI,
		},
		{
			name:    "dpi negative",
			cfg:     RasterConfig{InputRoot: "/in", DPI: -5, Command: "inkscape"},
			wantErr: ErrInvalidDPI,
		},
		{
			name:    "dpi above maximum",
			cfg:     RasterConfig{InputRoot: "/in", DPI: MaxDPI + 1, Command: "inkscape"},
			wantErr: ErrInvalidDPI,
		},
		{
			name:    "empty command",
			cfg:     RasterConfig{InputRoot: "/in", DPI: 300},
			wantErr: ErrEmptyCommand,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestConversionResultSucceeded(t *testing.T) {
	t.Parallel()

	ok := ConversionResult{Task: ConversionTask{RelativePath: "a.svg"}}
	if !ok.Succeeded() {
		t.Error("result without error should report success")
	}

	failed := ConversionResult{Err: ErrRasterization}
	if failed.Succeeded() {
		t.Error("result with error should not report success")
	}
}
