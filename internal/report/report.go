// Package report renders selected modes and spectra for the terminal.
package report

import (
	"fmt"
	"io"
	"math/cmplx"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/eigenpick/internal/modal"
)

// FormatComplex prints z as "re+imi" with fixed precision.
func FormatComplex(z complex128) string {
	sign := "+"
	im := imag(z)
	if im < 0 || (im == 0 && 1/im < 0) {
		sign, im = "-", -im
	}
	return fmt.Sprintf("%.6g%s%.6gi", real(z), sign, im)
}

// Summary writes a boxed description of a selected mode.
func Summary(w io.Writer, title string, target complex128, m *modal.Mode) error {
	row := func(k, v string) string {
		return Label.Render(fmt.Sprintf("%-11s", k)) + " " + Value.Render(v)
	}
	lines := []string{
		Title.Render(title),
		row("target", FormatComplex(target)),
		row("eigenvalue", FormatComplex(m.Eigenvalue)),
		row("distance", fmt.Sprintf("%.6g", m.Distance)),
		row("index", fmt.Sprintf("%d of %d", m.Index, m.Converged)),
		row("dofs", fmt.Sprintf("p=%d v=%d", m.P.Len(), m.V.Len())),
		row("max |p|", fmt.Sprintf("%.6g", m.P.MaxAbs())),
		row("max |v|", fmt.Sprintf("%.6g", m.V.MaxAbs())),
	}
	_, err := fmt.Fprintln(w, Panel.Render(strings.Join(lines, "\n")))
	return err
}

// Spectrum writes one line per eigenvalue with its distance to target.
// The row at selected is marked and highlighted.
func Spectrum(w io.Writer, values []complex128, target complex128, selected int) error {
	var table strings.Builder
	tw := tabwriter.NewWriter(&table, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "K\tEIGENVALUE\tDISTANCE\t")
	for k, v := range values {
		mark := ""
		if k == selected {
			mark = "*"
		}
		fmt.Fprintf(tw, "%d%s\t%s\t%.6g\t\n", k, mark, FormatComplex(v), cmplx.Abs(v-target))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	// styled after alignment so escape codes do not skew the columns
	lines := strings.Split(strings.TrimSuffix(table.String(), "\n"), "\n")
	for i, line := range lines {
		if selected >= 0 && i == selected+1 {
			line = Selected.Render(line)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// PlotField renders the magnitude of a field along its dofs.
func PlotField(values []complex128, caption string) string {
	if len(values) == 0 {
		return Subtle.Render("(empty field)")
	}
	data := make([]float64, len(values))
	for i, v := range values {
		data[i] = cmplx.Abs(v)
	}
	width := len(data)
	if width < 40 {
		width = 40
	}
	if width > 80 {
		width = 80
	}
	return asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}
