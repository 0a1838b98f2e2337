// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package upload

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ledongthuc/pdf"
)

// Info describes a local document.
type Info struct {
	Name  string
	Size  int64
	Ext   string
	Pages int // PDF page count, 0 when unknown or not a PDF
}

// Inspect stats the file at path. PDFs are opened to count pages; a PDF
// that cannot be parsed is reported with zero pages rather than an error.
func Inspect(path string) (Info, error) {
	st, err := os.Stat(path)
	if err != nil {
		return Info{}, err
	}
	if st.IsDir() {
		return Info{}, fmt.Errorf("%s is a directory", path)
	}

	name := filepath.Base(path)
	ext, _ := Extension(name)
	info := Info{Name: name, Size: st.Size(), Ext: ext}
	if ext == ".pdf" {
		info.Pages = pdfPages(path, st.Size())
	}
	return info, nil
}

// pdfPages returns the page count or 0. The parser panics on some
// malformed inputs, so panics are contained here.
func pdfPages(path string, size int64) (pages int) {
	defer func() {
		if r := recover(); r != nil {
			pages = 0
		}
	}()

	f, err := os.Open(path)
	if err != nil {
		return 0
	}
	defer f.Close()

	r, err := pdf.NewReader(f, size)
	if err != nil {
		return 0
	}
	return r.NumPage()
}

// HumanSize formats a byte count for display.
func HumanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
