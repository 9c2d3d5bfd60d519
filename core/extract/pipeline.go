package extract

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"data-importer/core/charset"
	"data-importer/core/coerce"
	"data-importer/core/entity"
	"data-importer/core/mapping"
	"data-importer/core/utils"

	"go.uber.org/zap"
)

// DefaultMaxRows bounds the number of data lines read from one file.
const DefaultMaxRows = 100000

// ctxCheckInterval is the number of lines between context checks.
const ctxCheckInterval = 1000

var (
	// ErrEmptyFile is returned for input without any bytes.
	ErrEmptyFile = errors.New("empty file")
	// ErrNoHeader is returned when no header line can be read.
	ErrNoHeader = errors.New("no header line")
)

// State is the position of a pipeline in its run.
type State int

const (
	Idle State = iota
	HeadersRead
	RowParsed
	Finalized
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case HeadersRead:
		return "headers_read"
	case RowParsed:
		return "row_parsed"
	case Finalized:
		return "finalized"
	}
	return "unknown"
}

// Options tune a pipeline run.
type Options struct {
	// MaxRows caps the data lines read; zero means DefaultMaxRows.
	MaxRows int
	// DefaultCharset is used when detection is inconclusive and the
	// settings declare no charset.
	DefaultCharset string
	// Delimiter forces the field separator; zero detects it from the header.
	Delimiter rune
}

// Stats summarizes a run.
type Stats struct {
	Encoding   string `json:"encoding"`
	Delimiter  string `json:"delimiter"`
	Rows       int    `json:"rows"`
	BlankLines int    `json:"blank_lines"`
	Truncated  int    `json:"truncated"`
	Detected   int    `json:"detected_columns"`
	Unknown    int    `json:"unknown_columns"`
	CellErrors int    `json:"cell_errors"`
}

// Pipeline turns delimited text into entities of type T. A pipeline runs one
// parse at a time.
type Pipeline[T any] struct {
	schema *entity.Schema[T]
	hooks  Hooks[T]
	opts   Options
	log    *zap.Logger
	state  State
}

// New creates a pipeline. Nil hooks behave like NopHooks and a nil logger
// discards output.
func New[T any](schema *entity.Schema[T], hooks Hooks[T], opts Options, log *zap.Logger) *Pipeline[T] {
	if hooks == nil {
		hooks = NopHooks[T]{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	if opts.MaxRows <= 0 {
		opts.MaxRows = DefaultMaxRows
	}
	return &Pipeline[T]{schema: schema, hooks: hooks, opts: opts, log: log}
}

// State returns the state reached by the last Parse call.
func (p *Pipeline[T]) State() State {
	return p.state
}

type column struct {
	header  string
	mapping mapping.FieldMapping
}

type deferredCell[T any] struct {
	row *Row[T]
	raw string
}

// Parse reads the whole input, builds one entity per data line and commits
// every row to sink. Cell failures are logged, reported through sink.Warn
// and leave the property unset. Errors are returned only when the input
// cannot be decoded or has no header, or when a commit fails.
func (p *Pipeline[T]) Parse(ctx context.Context, r io.Reader, sink Sink[T]) (Stats, error) {
	p.state = Idle
	var stats Stats

	data, err := io.ReadAll(r)
	if err != nil {
		return stats, fmt.Errorf("failed to read input: %w", err)
	}
	if len(data) == 0 {
		return stats, ErrEmptyFile
	}

	settings := sink.Settings()
	declared := settings.Encoding()
	if declared == "" {
		declared = p.opts.DefaultCharset
	}
	detected := charset.Detect(data, declared)
	text, used, err := charset.Decode(data, detected)
	if err != nil {
		return stats, fmt.Errorf("failed to decode input: %w", err)
	}
	if used != detected {
		p.log.Info("Charset fallback", zap.String("detected", detected), zap.String("used", used))
	}
	stats.Encoding = used

	delim := p.opts.Delimiter
	if delim == 0 {
		firstLine, _, _ := strings.Cut(text, "\n")
		delim = charset.DetectDelimiter(firstLine)
	}
	stats.Delimiter = string(delim)
	p.log.Debug("Input detected", zap.String("encoding", used), zap.String("delimiter", stats.Delimiter))

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = delim
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return stats, ErrNoHeader
		}
		return stats, fmt.Errorf("%w: %v", ErrNoHeader, err)
	}
	for i := range header {
		header[i] = utils.CleanCell(header[i])
	}
	header = p.hooks.RewriteHeaders(header)
	p.state = HeadersRead

	columns := p.resolveColumns(header, settings.Registry, sink, &stats)

	rows, pending, order, err := p.readRows(ctx, reader, columns, settings, sink, &stats)
	if err != nil {
		return stats, err
	}

	p.resolveDeferred(pending, order, settings.Registry, sink, &stats)

	p.hooks.Finalize(rows)
	p.state = Finalized

	for _, row := range rows {
		if err := sink.Commit(*row); err != nil {
			return stats, fmt.Errorf("failed to commit line %d: %w", row.Line, err)
		}
	}
	stats.Rows = len(rows)
	return stats, nil
}

func (p *Pipeline[T]) resolveColumns(header []string, reg *mapping.Registry, sink Sink[T], stats *Stats) []*column {
	columns := make([]*column, len(header))
	for i, h := range header {
		if h == "" {
			continue
		}
		m, ok := reg.Resolve(h)
		if !ok {
			sink.AddUnknown(h)
			stats.Unknown++
			continue
		}
		sink.AddDetected(h, m)
		stats.Detected++
		columns[i] = &column{header: h, mapping: m}
	}
	return columns
}

func (p *Pipeline[T]) readRows(
	ctx context.Context,
	reader *csv.Reader,
	columns []*column,
	settings *mapping.Settings,
	sink Sink[T],
	stats *Stats,
) ([]*Row[T], map[string][]deferredCell[T], []string, error) {
	var rows []*Row[T]
	pending := make(map[string][]deferredCell[T])
	var order []string
	loc := settings.Location()

	for n := 0; ; n++ {
		if n%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, nil, nil, err
			}
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			p.log.Warn("Malformed line skipped", zap.Error(err))
			sink.Warn(err.Error())
			continue
		}
		if utils.IsBlank(record) {
			stats.BlankLines++
			continue
		}
		if len(rows) >= p.opts.MaxRows {
			stats.Truncated++
			continue
		}

		line, _ := reader.FieldPos(0)
		row := &Row[T]{Entity: p.schema.New(), Line: line}

		for i, cell := range record {
			if i >= len(columns) || columns[i] == nil {
				continue
			}
			property := columns[i].mapping.Property
			raw, deferred, err := p.setCell(row, property, utils.CleanCell(cell), settings.Registry, loc, sink)
			if err != nil {
				p.cellFailed(row.Line, property, raw, err, sink, stats)
				continue
			}
			if deferred {
				if _, seen := pending[property]; !seen {
					order = append(order, property)
				}
				pending[property] = append(pending[property], deferredCell[T]{row: row, raw: raw})
			}
		}

		for _, msg := range p.hooks.PostProcessRow(row) {
			row.AddError(msg)
		}
		rows = append(rows, row)
		p.state = RowParsed
	}

	if stats.Truncated > 0 {
		msg := fmt.Sprintf("row limit of %d reached, %d lines ignored", p.opts.MaxRows, stats.Truncated)
		p.log.Warn("Row limit reached", zap.Int("max_rows", p.opts.MaxRows), zap.Int("ignored", stats.Truncated))
		sink.Warn(msg)
	}
	return rows, pending, order, nil
}

// setCell runs one cell through the hooks and coercion and returns the raw
// text the hooks left over. deferred reports a decimal that waits for
// column-wide style detection.
func (p *Pipeline[T]) setCell(row *Row[T], property, raw string, reg *mapping.Registry, loc *time.Location, sink Sink[T]) (string, bool, error) {
	raw, handled, err := p.hooks.CustomField(row.Entity, property, raw)
	if err != nil || handled {
		return raw, false, err
	}
	raw, handled, err = sink.OverrideField(row.Entity, property, raw)
	if err != nil || handled {
		return raw, false, err
	}

	prop, ok := p.schema.Property(property)
	if !ok || prop.Set == nil {
		// ad-hoc mapping from a settings blob that no hook consumed
		return raw, false, nil
	}

	value, deferred, err := coerce.Coerce(prop.Kind, raw, reg.Formats(property), loc)
	if err != nil {
		return raw, false, err
	}
	if deferred || value == nil {
		return raw, deferred, nil
	}

	if prop.Kind == coerce.String {
		s, _ := value.(string)
		if strings.TrimSpace(s) == "" {
			return raw, false, nil
		}
		if existing, _ := prop.Get(row.Entity).(string); strings.TrimSpace(existing) != "" {
			if strings.TrimSpace(existing) == strings.TrimSpace(s) {
				return raw, false, nil
			}
			value = existing + " " + s
		}
	}
	return raw, false, prop.Set(row.Entity, value)
}

func (p *Pipeline[T]) cellFailed(line int, property, raw string, err error, sink Sink[T], stats *Stats) {
	var cellErr *coerce.CellError
	if errors.As(err, &cellErr) && cellErr.Property == "" {
		cellErr.Property = property
	}
	stats.CellErrors++
	p.log.Warn("Cell skipped",
		zap.Int("line", line),
		zap.String("property", property),
		zap.String("raw", raw),
		zap.Error(err),
	)
	sink.Warn(fmt.Sprintf("line %d: %v", line, err))
}

// resolveDeferred picks one decimal notation per column, records it in the
// registry and sets the collected values in place.
func (p *Pipeline[T]) resolveDeferred(pending map[string][]deferredCell[T], order []string, reg *mapping.Registry, sink Sink[T], stats *Stats) {
	for _, property := range order {
		cells := pending[property]
		raws := make([]string, len(cells))
		for i, c := range cells {
			raws[i] = c.raw
		}

		style, ok := coerce.DetectDecimalStyle(raws)
		if !ok {
			msg := fmt.Sprintf("column %s mixes number formats, reading it as %s notation", property, style)
			p.log.Warn("Ambiguous decimal column", zap.String("property", property), zap.Stringer("style", style))
			sink.Warn(msg)
		} else {
			p.log.Debug("Decimal style detected", zap.String("property", property), zap.Stringer("style", style))
		}
		reg.PrependFormats(property, style.Patterns()...)

		prop, _ := p.schema.Property(property)
		formats := reg.Formats(property)
		for _, c := range cells {
			d, err := coerce.ParseDecimal(c.raw, formats)
			if err != nil {
				p.cellFailed(c.row.Line, property, c.raw, &coerce.CellError{Kind: coerce.Decimal, Raw: c.raw, Err: err}, sink, stats)
				continue
			}
			if err := prop.Set(c.row.Entity, d); err != nil {
				p.cellFailed(c.row.Line, property, c.raw, err, sink, stats)
			}
		}
	}
}
