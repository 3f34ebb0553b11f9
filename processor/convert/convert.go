package convert

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/c360/jobmap/errors"
	"github.com/c360/jobmap/metric"
	"github.com/c360/jobmap/processor/jsonrepair"
	"github.com/c360/jobmap/processor/normalize"
	"github.com/c360/jobmap/processor/parser"
)

// Format selectors accepted by WithFormat and ParseFormat.
const (
	FormatAuto    = "auto"
	FormatJSON    = parser.FormatJSON
	FormatJavaMap = parser.FormatJavaMap
)

// ParseFormat maps a user-supplied format name to a selector.
func ParseFormat(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", FormatAuto:
		return FormatAuto, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatJavaMap, "java-map", "map":
		return FormatJavaMap, nil
	default:
		return "", errors.WrapInvalid(
			fmt.Errorf("%w: %q", errors.ErrUnsupportedFormat, s),
			"Converter", "ParseFormat", "resolve format")
	}
}

// Result is one successful conversion.
type Result struct {
	ID       string
	Format   string // format the tree was decoded from
	Repaired bool   // JSON decoded only after repair
	Tree     *parser.Value
	Stats    normalize.Stats
	Duration time.Duration
}

// JSON renders the tree with indent spaces per level (0 for compact output).
func (r *Result) JSON(indent int) ([]byte, error) {
	return parser.Encode(r.Tree, indent)
}

// Option configures a Converter.
type Option func(*Converter)

// WithFormat forces the input format instead of detecting it.
func WithFormat(format string) Option {
	return func(c *Converter) {
		c.format = format
	}
}

// WithParser replaces the map-notation parser, e.g. to extend the denylist.
func WithParser(p *parser.JavaMapParser) Option {
	return func(c *Converter) {
		if p != nil {
			c.javaMap = p
		}
	}
}

// WithNormalizer replaces the default normalizer.
func WithNormalizer(n *normalize.Normalizer) Option {
	return func(c *Converter) {
		if n != nil {
			c.normalizer = n
		}
	}
}

// WithMetrics records conversion metrics.
func WithMetrics(m *metric.Metrics) Option {
	return func(c *Converter) {
		c.metrics = m
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Converter) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Converter turns raw definition payloads into normalized trees. It is safe
// for concurrent use.
type Converter struct {
	format     string
	json       *parser.JSONParser
	javaMap    *parser.JavaMapParser
	normalizer *normalize.Normalizer
	metrics    *metric.Metrics
	logger     *slog.Logger
}

// New creates a Converter.
func New(opts ...Option) (*Converter, error) {
	c := &Converter{
		format:     FormatAuto,
		json:       parser.NewJSONParser(),
		javaMap:    parser.NewJavaMapParser(),
		normalizer: normalize.New(normalize.DefaultConfig()),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	format, err := ParseFormat(c.format)
	if err != nil {
		return nil, err
	}
	c.format = format
	return c, nil
}

// ConvertString converts text.
func (c *Converter) ConvertString(ctx context.Context, text string) (*Result, error) {
	return c.Convert(ctx, []byte(text))
}

// Convert decodes input, trying strict JSON, then repaired JSON, then map
// notation, and normalizes the resulting tree. A JSON string at the root is
// unwrapped once and its content converted.
func (c *Converter) Convert(ctx context.Context, input []byte) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "Converter", "Convert", "check context")
	}

	start := time.Now()
	res := &Result{ID: uuid.NewString()}

	tree, err := c.decode(bytes.TrimSpace(input), c.format, res, 0)
	if err != nil {
		kind := parseErrorKind(err)
		c.metrics.RecordParseError(kind)
		c.metrics.RecordConversion(formatLabel(res.Format, c.format), metric.StatusError, time.Since(start))
		c.logger.Debug("Conversion failed",
			"component", "converter",
			"id", res.ID,
			"format", c.format,
			"kind", kind,
			"error", err)
		return nil, errors.WrapInvalid(err, "Converter", "Convert", "decode payload")
	}

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "Converter", "Convert", "check context")
	}

	_, res.Stats = c.normalizer.NormalizeWithStats(tree)
	res.Tree = tree
	res.Duration = time.Since(start)

	c.metrics.RecordNormalized("prefix", res.Stats.Prefixed)
	c.metrics.RecordNormalized("escape", res.Stats.Escaped)
	c.metrics.RecordConversion(res.Format, metric.StatusSuccess, res.Duration)
	if res.Repaired {
		c.metrics.RecordRepair()
	}

	c.logger.Debug("Conversion finished",
		"component", "converter",
		"id", res.ID,
		"format", res.Format,
		"repaired", res.Repaired,
		"prefixed", res.Stats.Prefixed,
		"escaped", res.Stats.Escaped,
		"duration_us", res.Duration.Microseconds())

	return res, nil
}

// decode fills res.Format and res.Repaired as it goes.
func (c *Converter) decode(data []byte, format string, res *Result, depth int) (*parser.Value, error) {
	if len(data) == 0 {
		return nil, &parser.ParseError{Pos: -1, Err: parser.ErrEmptyInput}
	}

	switch format {
	case FormatJavaMap:
		res.Format = FormatJavaMap
		return c.javaMap.Parse(data)
	case FormatJSON:
		tree, err := c.decodeJSON(data, res)
		if err != nil {
			return nil, err
		}
		return c.unwrapString(tree, res, depth)
	}

	if data[0] == '{' || data[0] == '[' || data[0] == '"' {
		tree, jsonErr := c.decodeJSON(data, res)
		if jsonErr == nil {
			return c.unwrapString(tree, res, depth)
		}
		if data[0] == '"' {
			return nil, jsonErr
		}
		c.logger.Debug("Input is not JSON, trying map notation",
			"component", "converter",
			"id", res.ID,
			"error", jsonErr)
	}

	res.Format = FormatJavaMap
	res.Repaired = false
	return c.javaMap.Parse(data)
}

// decodeJSON tries a strict decode, then one more after repair.
func (c *Converter) decodeJSON(data []byte, res *Result) (*parser.Value, error) {
	res.Format = FormatJSON

	tree, err := c.json.Parse(data)
	if err == nil {
		return tree, nil
	}

	fixed := jsonrepair.SanitizeBytes(data)
	if bytes.Equal(fixed, data) {
		return nil, err
	}

	tree, repairErr := c.json.Parse(fixed)
	if repairErr != nil {
		return nil, err
	}
	res.Repaired = true
	return tree, nil
}

// unwrapString converts the content of a root JSON string, as sent by clients
// that post map-notation text inside a JSON body.
func (c *Converter) unwrapString(tree *parser.Value, res *Result, depth int) (*parser.Value, error) {
	if !tree.IsPrimitive() || depth > 0 {
		return tree, nil
	}
	text, _ := tree.Text()
	res.Repaired = false
	return c.decode([]byte(strings.TrimSpace(text)), FormatAuto, res, depth+1)
}

func parseErrorKind(err error) string {
	switch {
	case stderrors.Is(err, parser.ErrEmptyInput):
		return "empty_input"
	case stderrors.Is(err, parser.ErrMalformedStructure):
		return "malformed_structure"
	case stderrors.Is(err, parser.ErrEmptyKey):
		return "empty_key"
	default:
		return "other"
	}
}

func formatLabel(detected, requested string) string {
	if detected != "" {
		return detected
	}
	return requested
}
