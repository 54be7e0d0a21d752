package printer

import (
	"bytes"
	"context"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"

	"github.com/colonyops/aula/internal/core/styles"
)

func TestPrinter_lines(t *testing.T) {
	var buf bytes.Buffer
	ctx := NewContext(context.Background(), New(&buf))

	p := Ctx(ctx)
	p.Successf("saved %d", 3)
	p.Errorf("failed")
	p.Printf("  plain")

	out := ansi.Strip(buf.String())
	assert.Equal(t, styles.IconNotifySuccess+" saved 3\n"+styles.IconNotifyError+" failed\n  plain\n", out)
}

func TestCtx_default(t *testing.T) {
	assert.NotNil(t, Ctx(context.Background()))
}
