package p10

import (
	"errors"

	"github.com/codeninja55/dcmstream/dicom/bytestream"
	"github.com/codeninja55/dcmstream/dicom/dspath"
	"github.com/codeninja55/dcmstream/dicom/tag"
	"github.com/codeninja55/dcmstream/dicom/vr"
)

// Delimiter and item tags use a fixed tag+length layout with no VR field,
// in every transfer syntax.
//
// DICOM Standard Reference:
// https://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_7.5
var (
	itemTag                 = tag.Item
	itemDelimitationTag     = tag.ItemDelimitationItem
	sequenceDelimitationTag = tag.SequenceDelimitationItem
)

type readState uint8

const (
	stateReadPreamble readState = iota
	stateReadFileMetaInformation
	stateReadDataElementHeader
	stateReadDataElementValueBytes
	stateEnd
)

type frameKind uint8

const (
	frameSequence frameKind = iota
	frameItem
	frameEncapsulatedPixelData
)

// frame is one level of nesting below the root data set: a sequence, one
// of its items, or an encapsulated pixel data block (which behaves like a
// sequence whose items are pixel data fragments rather than data sets).
type frame struct {
	kind            frameKind
	tag             tag.Tag
	vr              vr.VR
	definedLen      bool
	remaining       uint32
	lastTag         tag.Tag
	hasLastTag      bool
	privateCreators map[uint16]string
}

// ReadEngine turns a ByteStream into a Token stream per the state machine
// in the component design: ReadFilePreamble, ReadFileMetaInformation,
// ReadDataElementHeader, ReadDataElementValueBytes, ReadPixelDataItem,
// DelimiterToken, End.
//
// Next() follows the pull+pause contract: it either returns exactly one
// Token, or ErrDataRequired/ErrDataEndedUnexpectedly wrapped in a
// ReadError. On ErrDataRequired nothing has been consumed from the
// underlying ByteStream — the caller should Write more bytes and call
// Next() again.
type ReadEngine struct {
	cfg ReadConfig
	bs  *bytestream.ByteStream
	ts  TransferSyntax

	state  readState
	offset int64
	stack  []*frame

	rootLastTag    tag.Tag
	hasRootLastTag bool
	rootPrivate    map[uint16]string

	pendingValueTag tag.Tag
	pendingValueVR  vr.VR
	pendingValueBuf []byte
	inPendingValue  bool

	done bool
}

// NewReadEngine constructs a ReadEngine reading from bs under cfg.
func NewReadEngine(bs *bytestream.ByteStream, cfg ReadConfig) (*ReadEngine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	bs.SetInflateChunkSize(cfg.MaxTokenSize)
	return &ReadEngine{
		cfg:         cfg,
		bs:          bs,
		state:       stateReadPreamble,
		rootPrivate: map[uint16]string{},
	}, nil
}

// path reconstructs the current DataSetPath from the frame stack, for
// error reporting.
func (e *ReadEngine) path() dspath.Path {
	p := dspath.Root()
	itemIndex := -1
	for _, f := range e.stack {
		switch f.kind {
		case frameSequence, frameEncapsulatedPixelData:
			p = p.Push(f.tag)
			itemIndex = 0
		case frameItem:
			p = p.PushItem(f.tag, itemIndex)
		}
	}
	return p
}

func (e *ReadEngine) errAt(kind error, format string, args ...any) error {
	return newReadError(kind, e.path(), e.offset, format, args...)
}

// consume advances the offset and decrements the remaining counters of any
// enclosing defined-length frames, innermost first.
func (e *ReadEngine) consume(n int) error {
	e.offset += int64(n)
	for i := len(e.stack) - 1; i >= 0; i-- {
		f := e.stack[i]
		if !f.definedLen {
			continue
		}
		if uint32(n) > f.remaining {
			return e.errAt(ErrDataInvalid, "element overruns enclosing %s by %d bytes", f.tag, uint32(n)-f.remaining)
		}
		f.remaining -= uint32(n)
	}
	return nil
}

// top returns the innermost frame, or nil at the root.
func (e *ReadEngine) top() *frame {
	if len(e.stack) == 0 {
		return nil
	}
	return e.stack[len(e.stack)-1]
}

// privateCreatorMap returns the creator-binding map the current nesting
// level should read from and write to.
func (e *ReadEngine) privateCreatorMap() map[uint16]string {
	for i := len(e.stack) - 1; i >= 0; i-- {
		if e.stack[i].kind == frameItem {
			return e.stack[i].privateCreators
		}
	}
	return e.rootPrivate
}

// Next produces the next Token in the stream. Returns a *ReadError wrapping
// ErrDataRequired when more input is needed, or ErrDataEndedUnexpectedly
// when the stream ended mid-structure. After KindEnd is returned, further
// calls return a *ReadError wrapping ErrDataInvalid.
func (e *ReadEngine) Next() (Token, error) {
	if e.done {
		return Token{}, e.errAt(ErrDataInvalid, "Next called after End token")
	}

	switch e.state {
	case stateReadPreamble:
		return e.readPreamble()
	case stateReadFileMetaInformation:
		return e.readFileMetaInformation()
	case stateReadDataElementValueBytes:
		return e.readPendingValueChunk()
	case stateReadDataElementHeader:
		return e.readNextStructural()
	default:
		e.done = true
		return EndToken(), nil
	}
}

func (e *ReadEngine) readPreamble() (Token, error) {
	const preambleAndPrefixLen = 132
	peeked, err := e.bs.Peek(preambleAndPrefixLen)
	if err != nil {
		if errors.Is(err, bytestream.ErrDataRequired) {
			return Token{}, e.errAt(ErrDataRequired, "awaiting preamble")
		}
		// Stream ended before 132 bytes arrived: no preamble present.
		if e.cfg.RequireDICMPrefix {
			return Token{}, e.errAt(ErrDicmPrefixNotPresent, "stream shorter than 132 bytes")
		}
		e.state = stateReadDataElementHeader
		return e.fallbackToDefaultTransferSyntax()
	}

	if string(peeked[128:132]) != "DICM" {
		if e.cfg.RequireDICMPrefix {
			return Token{}, e.errAt(ErrDicmPrefixNotPresent, "expected DICM at offset 128")
		}
		e.state = stateReadDataElementHeader
		return e.fallbackToDefaultTransferSyntax()
	}

	data, err := e.bs.Read(preambleAndPrefixLen)
	if err != nil {
		return Token{}, e.errAt(ErrDataRequired, "reading preamble after successful peek")
	}
	if err := e.consume(preambleAndPrefixLen); err != nil {
		return Token{}, err
	}

	var tok Token
	copy(tok.Preamble[:], data[:128])
	tok.Kind = KindFilePreambleAndDICMPrefix
	e.state = stateReadFileMetaInformation
	return tok, nil
}

// fallbackToDefaultTransferSyntax activates config's default transfer
// syntax when no File Meta Information is present, per the external
// interfaces contract that FMI-less implicit-VR input is accepted when a
// default is configured.
func (e *ReadEngine) fallbackToDefaultTransferSyntax() (Token, error) {
	ts, err := LookupTransferSyntax(e.cfg.DefaultTransferSyntaxUID)
	if err != nil {
		return Token{}, e.errAt(ErrTransferSyntaxNotSupported, "default transfer syntax %s", e.cfg.DefaultTransferSyntaxUID)
	}
	e.ts = ts
	var tok Token
	tok.Kind = KindFilePreambleAndDICMPrefix
	return tok, nil
}

func (e *ReadEngine) readFileMetaInformation() (Token, error) {
	fmiTS := TransferSyntax{ExplicitVR: true, ByteOrder: explicitVRLittleEndian.ByteOrder}

	var elements []FileMetaElement
	var groupLength uint32
	haveGroupLength := false
	bytesRead := uint32(0)

	// Peek the whole group up front when (0002,0000) gives its length, so an
	// under-run part-way through leaves the group unread.
	if glPeek, err := e.bs.Peek(12); err == nil && decodeTag(glPeek, fmiTS) == tag.FileMetaInformationGroupLength {
		if _, err := e.bs.Peek(12 + int(fmiTS.ByteOrder.Uint32(glPeek[8:12]))); errors.Is(err, bytestream.ErrDataRequired) {
			return Token{}, e.errAt(ErrDataRequired, "awaiting file meta information")
		}
	}

	for {
		if haveGroupLength && bytesRead >= groupLength {
			break
		}

		tagPeek, err := e.bs.Peek(4)
		if err != nil {
			if errors.Is(err, bytestream.ErrDataRequired) {
				return Token{}, e.errAt(ErrDataRequired, "awaiting file meta information")
			}
			return Token{}, e.errAt(ErrDataEndedUnexpectedly, "truncated file meta information")
		}
		t := decodeTag(tagPeek, fmiTS)
		if t.Group != tag.MetadataGroup {
			break
		}

		hdr, n, err := e.peekExplicitHeader(fmiTS)
		if err != nil {
			return Token{}, err
		}
		data, err := e.bs.Read(n)
		if err != nil {
			return Token{}, e.errAt(ErrDataRequired, "reading file meta element after successful peek")
		}
		if err := e.consume(n); err != nil {
			return Token{}, err
		}
		bytesRead += uint32(n)

		valueData := data[n-int(hdr.length):]
		elements = append(elements, FileMetaElement{Tag: hdr.tag, VR: hdr.vr, Data: valueData})

		if hdr.tag == tag.FileMetaInformationGroupLength {
			if len(valueData) >= 4 {
				groupLength = fmiTS.ByteOrder.Uint32(valueData)
				haveGroupLength = true
				bytesRead = 0
			}
		}
	}

	fmi := &FileMetaInfo{Elements: elements}
	tsUID, ok := fmi.TransferSyntaxUID()
	if !ok || tsUID == "" {
		tsUID = e.cfg.DefaultTransferSyntaxUID
	}
	ts, err := LookupTransferSyntax(tsUID)
	if err != nil {
		return Token{}, e.errAt(ErrTransferSyntaxNotSupported, "%s", tsUID)
	}
	e.ts = ts
	if ts.Deflated {
		if err := e.bs.StartZlibInflate(); err != nil {
			return Token{}, e.errAt(ErrDataInvalid, "activating zlib inflate: %v", err)
		}
	}

	e.state = stateReadDataElementHeader
	return FileMetaInformationToken(fmi), nil
}

// explicitHeader is the parsed result of one explicit-VR element header.
type explicitHeader struct {
	tag    tag.Tag
	vr     vr.VR
	length uint32
}

// peekExplicitHeader peeks (without consuming) an explicit-VR header,
// returning its parsed fields and the total byte count (header + value)
// the caller should subsequently Read in one call. length may be
// 0xFFFFFFFF (undefined length); the caller is responsible for not
// attempting to read a value in that case.
func (e *ReadEngine) peekExplicitHeader(ts TransferSyntax) (explicitHeader, int, error) {
	short, err := e.bs.Peek(8)
	if err != nil {
		if errors.Is(err, bytestream.ErrDataRequired) {
			return explicitHeader{}, 0, e.errAt(ErrDataRequired, "awaiting element header")
		}
		return explicitHeader{}, 0, e.errAt(ErrDataEndedUnexpectedly, "truncated element header")
	}

	t := decodeTag(short[:4], ts)
	vrStr := string(short[4:6])
	v, parseErr := vr.Parse(vrStr)
	if parseErr != nil {
		return explicitHeader{}, 0, e.errAt(ErrDataInvalid, "invalid VR %q for tag %s", vrStr, t)
	}

	if !v.IsLongLengthFamily() {
		length := uint32(ts.ByteOrder.Uint16(short[6:8]))
		return explicitHeader{tag: t, vr: v, length: length}, e.headerTotal(8, length), nil
	}

	long, err := e.bs.Peek(12)
	if err != nil {
		if errors.Is(err, bytestream.ErrDataRequired) {
			return explicitHeader{}, 0, e.errAt(ErrDataRequired, "awaiting long-form element header")
		}
		return explicitHeader{}, 0, e.errAt(ErrDataEndedUnexpectedly, "truncated long-form element header")
	}
	length := ts.ByteOrder.Uint32(long[8:12])
	return explicitHeader{tag: t, vr: v, length: length}, e.headerTotal(12, length), nil
}

// peekImplicitHeader peeks an implicit-VR header (tag + 4-byte length; VR
// resolved from the dictionary, falling back to UN; private elements
// always resolve to UN, whether or not their creator is known).
func (e *ReadEngine) peekImplicitHeader(ts TransferSyntax) (explicitHeader, int, error) {
	raw, err := e.bs.Peek(8)
	if err != nil {
		if errors.Is(err, bytestream.ErrDataRequired) {
			return explicitHeader{}, 0, e.errAt(ErrDataRequired, "awaiting element header")
		}
		return explicitHeader{}, 0, e.errAt(ErrDataEndedUnexpectedly, "truncated element header")
	}
	t := decodeTag(raw[:4], ts)
	length := ts.ByteOrder.Uint32(raw[4:8])
	v := e.resolveImplicitVR(t)
	return explicitHeader{tag: t, vr: v, length: length}, e.headerTotal(8, length), nil
}

// headerTotal returns headerLen + length, or just headerLen when length is
// the undefined-length sentinel (no value bytes follow the header itself
// in that case — the value arrives as items instead).
func (e *ReadEngine) headerTotal(headerLen int, length uint32) int {
	if length == 0xFFFFFFFF {
		return headerLen
	}
	return headerLen + int(length)
}

func (e *ReadEngine) resolveImplicitVR(t tag.Tag) vr.VR {
	if t.IsPrivate() && t.Element >= 0x1000 {
		block := t.PrivateBlock()
		creators := e.privateCreatorMap()
		if _, ok := creators[uint32ToGroupBlockKey(t.Group, block)]; ok {
			// Private dictionary lookups are out of this module's curated
			// tag.TagDict scope; fall back to UN per the unresolved case
			// in the private-creator resolution algorithm.
			return vr.Unknown
		}
		return vr.Unknown
	}
	if info, err := tag.Find(t); err == nil && len(info.VRs) > 0 {
		return info.VRs[0]
	}
	return vr.Unknown
}

// uint32ToGroupBlockKey folds a private group and block number into one
// lookup key for the creator-binding map.
func uint32ToGroupBlockKey(group, block uint16) uint16 {
	return group ^ (block << 8)
}

func decodeTag(b []byte, ts TransferSyntax) tag.Tag {
	return tag.New(ts.ByteOrder.Uint16(b[0:2]), ts.ByteOrder.Uint16(b[2:4]))
}

// readNextStructural reads one element header, delimiter, or pixel data
// item at the current nesting level, pushing/popping frames and emitting
// the corresponding token.
func (e *ReadEngine) readNextStructural() (Token, error) {
	tagPeek, err := e.bs.Peek(4)
	if err != nil {
		if errors.Is(err, bytestream.ErrDataRequired) {
			if len(e.stack) == 0 && e.bs.IsFullyConsumed() {
				e.state = stateEnd
				return e.Next()
			}
			return Token{}, e.errAt(ErrDataRequired, "awaiting next element")
		}
		if len(e.stack) > 0 {
			return Token{}, e.errAt(ErrDataEndedUnexpectedly, "stream ended inside %s", e.path())
		}
		e.state = stateEnd
		return e.Next()
	}
	t := decodeTag(tagPeek, e.ts)

	top := e.top()

	if t == itemTag {
		return e.readItemOrFragmentStart(top)
	}
	if t == itemDelimitationTag {
		return e.readItemDelimiter(top)
	}
	if t == sequenceDelimitationTag {
		return e.readSequenceDelimiter(top)
	}

	if top != nil && top.kind == frameEncapsulatedPixelData {
		return Token{}, e.errAt(ErrDataInvalid, "expected pixel data item or delimiter, found %s", t)
	}

	return e.readElementHeader(top)
}

func (e *ReadEngine) checkOrdering(top *frame, t tag.Tag) error {
	if !e.cfg.RequireOrderedDataElements {
		return nil
	}
	if top == nil {
		if e.hasRootLastTag && t.Compare(e.rootLastTag) < 0 {
			return e.errAt(ErrDataInvalid, "tag %s out of order after %s", t, e.rootLastTag)
		}
		e.rootLastTag = t
		e.hasRootLastTag = true
		return nil
	}
	if top.hasLastTag && t.Compare(top.lastTag) < 0 {
		return e.errAt(ErrDataInvalid, "tag %s out of order after %s", t, top.lastTag)
	}
	top.lastTag = t
	top.hasLastTag = true
	return nil
}

func (e *ReadEngine) readElementHeader(top *frame) (Token, error) {
	var hdr explicitHeader
	var total int
	var err error
	if e.ts.ExplicitVR {
		hdr, total, err = e.peekExplicitHeader(e.ts)
	} else {
		hdr, total, err = e.peekImplicitHeader(e.ts)
	}
	if err != nil {
		return Token{}, err
	}

	if err := e.checkOrdering(top, hdr.tag); err != nil {
		return Token{}, err
	}

	isPixelData := hdr.tag == tag.PixelData
	isSequence := hdr.vr == vr.SequenceOfItems

	if hdr.length == 0xFFFFFFFF {
		if !isSequence && !(isPixelData && (hdr.vr == vr.OtherByte || hdr.vr == vr.OtherWord)) {
			return Token{}, e.errAt(ErrDataInvalid, "undefined length for non-sequence VR %s", hdr.vr)
		}
		headerBytes := 8
		if e.ts.ExplicitVR && hdr.vr.IsLongLengthFamily() {
			headerBytes = 12
		}
		if _, err := e.bs.Read(headerBytes); err != nil {
			return Token{}, e.errAt(ErrDataRequired, "reading header after successful peek")
		}
		if err := e.consume(headerBytes); err != nil {
			return Token{}, err
		}
		if err := e.checkMaxSequenceDepth(); err != nil {
			return Token{}, err
		}

		kind := frameSequence
		if isPixelData {
			kind = frameEncapsulatedPixelData
		}
		e.stack = append(e.stack, &frame{kind: kind, tag: hdr.tag, vr: hdr.vr, privateCreators: map[uint16]string{}})
		return SequenceStartToken(hdr.tag, hdr.vr), nil
	}

	if err := e.checkMaxSequenceDepth(); err != nil {
		return Token{}, err
	}

	if isSequence {
		headerBytes := 8
		if e.ts.ExplicitVR {
			headerBytes = 12
		}
		if _, err := e.bs.Read(headerBytes); err != nil {
			return Token{}, e.errAt(ErrDataRequired, "reading header after successful peek")
		}
		if err := e.consume(headerBytes); err != nil {
			return Token{}, err
		}
		e.stack = append(e.stack, &frame{
			kind: frameSequence, tag: hdr.tag, vr: hdr.vr,
			definedLen: true, remaining: hdr.length,
			privateCreators: map[uint16]string{},
		})
		return SequenceStartToken(hdr.tag, hdr.vr), nil
	}

	// Ordinary element: read the whole header+value in one shot (it was
	// peeked as a single block above), then hand value bytes out in
	// max_token_size chunks.
	data, err := e.bs.Read(total)
	if err != nil {
		return Token{}, e.errAt(ErrDataRequired, "reading element after successful peek")
	}
	if err := e.consume(total); err != nil {
		return Token{}, err
	}
	valueData := data[total-int(hdr.length):]

	if hdr.tag.IsPrivateCreatorReservation() {
		e.privateCreatorMap()[uint32ToGroupBlockKey(hdr.tag.Group, hdr.tag.PrivateBlock())] = trimPadding(valueData)
	}

	e.pendingValueTag = hdr.tag
	e.pendingValueVR = hdr.vr
	e.inPendingValue = true
	e.pendingValueBuf = valueData
	e.state = stateReadDataElementValueBytes
	return DataElementHeaderToken(hdr.tag, hdr.vr, hdr.length), nil
}

func (e *ReadEngine) checkMaxSequenceDepth() error {
	if len(e.stack) >= e.cfg.MaxSequenceDepth {
		return e.errAt(ErrMaximumExceeded, "sequence depth exceeds %d", e.cfg.MaxSequenceDepth)
	}
	return nil
}

func trimPadding(b []byte) string {
	s := string(b)
	for len(s) > 0 && (s[len(s)-1] == ' ' || s[len(s)-1] == 0) {
		s = s[:len(s)-1]
	}
	return s
}

func (e *ReadEngine) readItemOrFragmentStart(top *frame) (Token, error) {
	raw, err := e.bs.Peek(8)
	if err != nil {
		if errors.Is(err, bytestream.ErrDataRequired) {
			return Token{}, e.errAt(ErrDataRequired, "awaiting item header")
		}
		return Token{}, e.errAt(ErrDataEndedUnexpectedly, "truncated item header")
	}
	length := e.ts.ByteOrder.Uint32(raw[4:8])

	if top != nil && top.kind == frameEncapsulatedPixelData && length > 0 {
		// Peek the whole fragment so an under-run leaves the item header unread.
		if _, err := e.bs.Peek(8 + int(length)); err != nil {
			if errors.Is(err, bytestream.ErrDataRequired) {
				return Token{}, e.errAt(ErrDataRequired, "awaiting pixel data fragment")
			}
			return Token{}, e.errAt(ErrDataEndedUnexpectedly, "truncated pixel data fragment")
		}
	}

	if _, err := e.bs.Read(8); err != nil {
		return Token{}, e.errAt(ErrDataRequired, "reading item header after successful peek")
	}
	if err := e.consume(8); err != nil {
		return Token{}, err
	}

	if top != nil && top.kind == frameEncapsulatedPixelData {
		if length == 0 {
			return PixelDataItemToken(0), nil
		}
		data, err := e.bs.Read(int(length))
		if err != nil {
			return Token{}, e.errAt(ErrDataRequired, "reading pixel data fragment")
		}
		if err := e.consume(int(length)); err != nil {
			return Token{}, err
		}
		e.pendingValueTag = top.tag
		e.pendingValueVR = top.vr
		e.pendingValueBuf = data
		e.inPendingValue = true
		e.state = stateReadDataElementValueBytes
		return PixelDataItemToken(length), nil
	}

	if err := e.checkMaxSequenceDepth(); err != nil {
		return Token{}, err
	}
	definedLen := length != 0xFFFFFFFF
	if definedLen && length == 0 {
		// Zero-length item: no frame needed, synthesize the delimiter the
		// wire form omitted.
		return SequenceItemDelimiterToken(), nil
	}
	e.stack = append(e.stack, &frame{
		kind: frameItem, tag: itemTag, definedLen: definedLen, remaining: length,
		privateCreators: map[uint16]string{},
	})
	return SequenceItemStartToken(), nil
}

func (e *ReadEngine) readItemDelimiter(top *frame) (Token, error) {
	if top == nil || top.kind != frameItem {
		return Token{}, e.errAt(ErrDataInvalid, "item delimitation item outside a sequence item")
	}
	if _, err := e.bs.Read(8); err != nil {
		return Token{}, e.errAt(ErrDataRequired, "reading item delimiter")
	}
	if err := e.consume(8); err != nil {
		return Token{}, err
	}
	e.stack = e.stack[:len(e.stack)-1]
	return SequenceItemDelimiterToken(), nil
}

func (e *ReadEngine) readSequenceDelimiter(top *frame) (Token, error) {
	if top == nil || (top.kind != frameSequence && top.kind != frameEncapsulatedPixelData) {
		return Token{}, e.errAt(ErrDataInvalid, "sequence delimitation item outside a sequence")
	}
	if _, err := e.bs.Read(8); err != nil {
		return Token{}, e.errAt(ErrDataRequired, "reading sequence delimiter")
	}
	if err := e.consume(8); err != nil {
		return Token{}, err
	}
	e.stack = e.stack[:len(e.stack)-1]
	return SequenceDelimiterToken(top.tag), nil
}

// readPendingValueChunk hands out the next max_token_size-bounded slice of
// an already-materialized value buffer as a DataElementValueBytes token.
func (e *ReadEngine) readPendingValueChunk() (Token, error) {
	chunkSize := e.cfg.MaxTokenSize
	if chunkSize > len(e.pendingValueBuf) {
		chunkSize = len(e.pendingValueBuf)
	}
	chunk := e.pendingValueBuf[:chunkSize]
	e.pendingValueBuf = e.pendingValueBuf[chunkSize:]
	remaining := uint32(len(e.pendingValueBuf))

	if remaining == 0 {
		e.inPendingValue = false
		e.state = stateReadDataElementHeader
	}
	return DataElementValueBytesToken(e.pendingValueTag, e.pendingValueVR, chunk, remaining), nil
}
