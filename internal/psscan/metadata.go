package psscan

import (
	"strconv"
	"strings"

	"github.com/cwbudde/go-postscript/internal/pslex"
)

// BoundingBox is the EPS DSC bounding box (spec.md §4.2, §4.10): four
// integers in PostScript user space enclosing the drawable content, used
// by the graphics backend to size its device surface.
type BoundingBox struct {
	LowerLeftX, LowerLeftY   int
	UpperRightX, UpperRightY int
}

// Metadata is everything the leading DSC comment block yields before
// %%EndComments (spec.md §6). Pragmas beyond %%BoundingBox are collected
// but inert, matching SPEC_FULL.md's supplemented DSC coverage: a strict
// sweep that errors on an unrecognized %% pragma would reject ordinary EPS
// files that emit %%Title/%%Creator/etc. ahead of %%BoundingBox.
type Metadata struct {
	HasBoundingBox bool
	BoundingBox    BoundingBox
	Title          string
	Creator        string
	CreationDate   string
	Pages          string
	For            string
}

// ScanMetadata walks the leading comment block of src, stopping at
// %%EndComments (or the first non-comment token), and extracts the DSC
// pragmas spec.md §4.10/§6 assigns runtime meaning to. It does not consume
// or otherwise affect the main token stream a Scanner/Lexer produces over
// the same src — it is a read-only pre-scan, per spec.md §4.2.
func ScanMetadata(src string) Metadata {
	var md Metadata
	lex := pslex.New(src)
	for {
		tok := lex.Next()
		if tok.Kind == pslex.EOF {
			return md
		}
		if tok.Kind != pslex.Comment {
			// Non-comment content before %%EndComments ends the sweep too;
			// PLRM's DSC block is always a contiguous comment prefix.
			return md
		}
		line := strings.TrimPrefix(tok.Content, "%")
		switch {
		case strings.HasPrefix(line, "%EndComments"):
			return md
		case strings.HasPrefix(line, "%BoundingBox:"):
			if bb, ok := parseBoundingBox(strings.TrimPrefix(line, "%BoundingBox:")); ok {
				md.BoundingBox = bb
				md.HasBoundingBox = true
			}
		case strings.HasPrefix(line, "%Title:"):
			md.Title = strings.TrimSpace(strings.TrimPrefix(line, "%Title:"))
		case strings.HasPrefix(line, "%Creator:"):
			md.Creator = strings.TrimSpace(strings.TrimPrefix(line, "%Creator:"))
		case strings.HasPrefix(line, "%CreationDate:"):
			md.CreationDate = strings.TrimSpace(strings.TrimPrefix(line, "%CreationDate:"))
		case strings.HasPrefix(line, "%Pages:"):
			md.Pages = strings.TrimSpace(strings.TrimPrefix(line, "%Pages:"))
		case strings.HasPrefix(line, "%For:"):
			md.For = strings.TrimSpace(strings.TrimPrefix(line, "%For:"))
		}
		// `%!PS-Adobe-...` and any other leading comment is ignored, per
		// spec.md §6.
	}
}

func parseBoundingBox(rest string) (BoundingBox, bool) {
	fields := strings.Fields(rest)
	if len(fields) != 4 {
		return BoundingBox{}, false
	}
	nums := make([]int, 4)
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			// `%%BoundingBox: (atend)` and similar non-numeric forms are
			// valid DSC but carry no usable geometry here.
			return BoundingBox{}, false
		}
		nums[i] = n
	}
	return BoundingBox{LowerLeftX: nums[0], LowerLeftY: nums[1], UpperRightX: nums[2], UpperRightY: nums[3]}, true
}
