package transform

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/codeninja55/dcmstream/dicom/p10"
	"github.com/codeninja55/dcmstream/dicom/tag"
	"github.com/codeninja55/dcmstream/dicom/vr"
)

var (
	printTagStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#5436bd")).Bold(true)
	printVRStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00b8a9"))
	printValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f6f5f5"))
)

// maxPrintValueBytes caps how many value bytes Print renders inline before
// falling back to a length-only summary, keeping one very long value (a
// pixel data fragment, an encapsulated OB blob) from dominating the
// output.
const maxPrintValueBytes = 128

// Print is a Sink that renders each token as a human-readable, indented
// line, then optionally forwards it unchanged to next — so a caller can
// both display a stream and let it flow through to a terminal sink.
type Print struct {
	w     io.Writer
	color bool
	next  Sink // may be nil, meaning Print is the end of the chain

	depth      int
	pendingTag tag.Tag
	pendingVR  vr.VR
	pendingBuf []byte
}

// NewPrint constructs a Print writing rendered lines to w. next may be nil.
// color enables lipgloss terminal styling; callers piping to a file or a
// non-terminal should pass false.
func NewPrint(w io.Writer, color bool, next Sink) *Print {
	return &Print{w: w, color: color, next: next}
}

// Write renders tok, then forwards it to next if one was given.
func (p *Print) Write(tok p10.Token) error {
	switch tok.Kind {
	case p10.KindFilePreambleAndDICMPrefix:
		p.line("File Preamble + DICM prefix")

	case p10.KindFileMetaInformation:
		p.line(fmt.Sprintf("File Meta Information (%d elements)", tok.FileMeta.Len()))

	case p10.KindDataElementHeader:
		p.pendingTag, p.pendingVR = tok.Tag, tok.VR
		p.pendingBuf = p.pendingBuf[:0]
		p.line(fmt.Sprintf("%s %s length=%d", p.styleTag(tok.Tag), p.styleVR(tok.VR), tok.Length))

	case p10.KindDataElementValueBytes:
		p.pendingBuf = append(p.pendingBuf, tok.Data...)
		if tok.BytesRemaining == 0 && len(p.pendingBuf) > 0 {
			p.linef(p.depth+1, "= %s", p.styleValue(previewBytes(p.pendingVR, p.pendingBuf)))
		}

	case p10.KindSequenceStart:
		p.line(fmt.Sprintf("%s %s", p.styleTag(tok.Tag), p.styleVR(tok.VR)))
		p.depth++

	case p10.KindSequenceItemStart:
		p.line("Item")
		p.depth++

	case p10.KindSequenceItemDelimiter:
		p.depth--
		p.line("Item Delimiter")

	case p10.KindPixelDataItem:
		p.line(fmt.Sprintf("Pixel Data Item length=%d", tok.Length))

	case p10.KindSequenceDelimiter:
		p.depth--
		p.line("Sequence Delimiter")

	case p10.KindEnd:
		p.line("End")

	default:
		return fmt.Errorf("transform: Print: unknown token kind %v", tok.Kind)
	}

	if p.next == nil {
		return nil
	}
	return p.next.Write(tok)
}

func (p *Print) line(s string) {
	p.linef(p.depth, "%s", s)
}

func (p *Print) linef(depth int, format string, args ...any) {
	fmt.Fprintf(p.w, "%s%s\n", strings.Repeat("  ", depth), fmt.Sprintf(format, args...))
}

func (p *Print) styleTag(t tag.Tag) string {
	if !p.color {
		return t.String()
	}
	return printTagStyle.Render(t.String())
}

func (p *Print) styleVR(v vr.VR) string {
	if !p.color {
		return v.String()
	}
	return printVRStyle.Render(v.String())
}

func (p *Print) styleValue(s string) string {
	if !p.color {
		return s
	}
	return printValueStyle.Render(s)
}

// previewBytes renders value bytes for display: string VRs print their
// (trimmed) text directly, everything else prints a byte count once it
// exceeds maxPrintValueBytes.
func previewBytes(v vr.VR, data []byte) string {
	if v.IsStringType() && len(data) <= maxPrintValueBytes {
		return strings.TrimRight(string(data), "\x00 ")
	}
	if len(data) > maxPrintValueBytes {
		return fmt.Sprintf("<%d bytes>", len(data))
	}
	return fmt.Sprintf("% x", data)
}
