package render

import (
	"context"
	"errors"
	"testing"

	errs "github.com/matzehuels/critpath/pkg/errors"
)

const tinySVG = `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"><rect width="10" height="10"/></svg>`

func TestConvertWithoutRsvg(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	if HasConverter() {
		t.Fatal("HasConverter() = true with an empty PATH")
	}
	_, err := ToPDF(context.Background(), []byte(tinySVG))
	if !errs.Is(err, errs.ErrCodeUnsupported) {
		t.Errorf("ToPDF() error = %v, want UNSUPPORTED", err)
	}
	_, err = ToPNG(context.Background(), []byte(tinySVG), 2)
	if !errs.Is(err, errs.ErrCodeUnsupported) {
		t.Errorf("ToPNG() error = %v, want UNSUPPORTED", err)
	}
}

func TestConvertStopsWithContext(t *testing.T) {
	if !HasConverter() {
		t.Skip("rsvg-convert not installed")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ToPDF(ctx, []byte(tinySVG))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("ToPDF() error = %v, want context.Canceled", err)
	}
}
