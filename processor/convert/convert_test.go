package convert

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"github.com/c360/jobmap/errors"
	"github.com/c360/jobmap/metric"
	"github.com/c360/jobmap/processor/normalize"
	"github.com/c360/jobmap/processor/parser"
	"github.com/c360/jobmap/testutil"
)

type ConverterSuite struct {
	suite.Suite
	registry *metric.MetricsRegistry
	conv     *Converter
	ctx      context.Context
}

func TestConverterSuite(t *testing.T) {
	suite.Run(t, new(ConverterSuite))
}

func (s *ConverterSuite) SetupTest() {
	s.registry = metric.NewMetricsRegistry()
	s.ctx = context.Background()

	var err error
	s.conv, err = New(WithMetrics(s.registry.CoreMetrics()))
	s.Require().NoError(err)
}

func (s *ConverterSuite) text(v *parser.Value, path ...string) string {
	got := v.Lookup(path...)
	s.Require().NotNil(got, "missing %v", path)
	text, ok := got.Text()
	s.Require().True(ok)
	return text
}

func (s *ConverterSuite) TestJavaMapFolder() {
	res, err := s.conv.ConvertString(s.ctx, testutil.FolderJavaMap)
	s.Require().NoError(err)

	s.Equal(FormatJavaMap, res.Format)
	s.False(res.Repaired)
	_, err = uuid.Parse(res.ID)
	s.NoError(err)

	job := res.Tree.Lookup(testutil.FolderJobPath...)
	s.Require().NotNil(job)
	vars := job.Lookup("Variables").Array()
	s.Require().NotNil(vars)
	s.Equal("*USRPRF", s.text(vars.At(3), "OS400-JOBD"))
	s.Equal(1, res.Stats.Prefixed)

	out, err := res.JSON(2)
	s.Require().NoError(err)
	s.True(json.Valid(out))
	s.Contains(string(out), "\n  \"GENER_NEXUS-DEMOGRAFICO\": {")

	m := s.registry.CoreMetrics()
	s.Equal(1.0, promtest.ToFloat64(m.ConversionsTotal.WithLabelValues(FormatJavaMap, metric.StatusSuccess)))
	s.Equal(1.0, promtest.ToFloat64(m.NormalizedFields.WithLabelValues("prefix")))
}

func (s *ConverterSuite) TestStrictJSON() {
	res, err := s.conv.ConvertString(s.ctx, `{"Job":{"OS400-JOBD":"LIB","Count":3,"Message":"ok"}}`)
	s.Require().NoError(err)

	s.Equal(FormatJSON, res.Format)
	s.False(res.Repaired)
	s.Equal("*LIB", s.text(res.Tree, "Job", "OS400-JOBD"))
	s.Equal(parser.KindNumber, res.Tree.Lookup("Job", "Count").Kind())

	out, err := res.JSON(0)
	s.Require().NoError(err)
	s.Equal(`{"Job":{"OS400-JOBD":"*LIB","Count":3,"Message":"ok"}}`, string(out))
}

func (s *ConverterSuite) TestRepairedJSON() {
	res, err := s.conv.ConvertString(s.ctx, testutil.FolderJSONWithRawNewlines)
	s.Require().NoError(err)

	s.Equal(FormatJSON, res.Format)
	s.True(res.Repaired)

	job := res.Tree.Lookup("GENER_NEXUS", "CC1040P2")
	s.Require().NotNil(job)
	s.Equal("*USRPRF", s.text(job, "OS400-JOBD"))

	// Repair decoded the escapes back into control bytes; normalization
	// escapes them again for the deployment API.
	msg := s.text(job, "Mail_1", "Message")
	s.Equal(`Estimado,\ninformo\tque el job fallo.\n\nAtte.`, msg)
	s.Equal(1, res.Stats.Escaped)

	confirm, ok := job.Lookup("Confirm").BoolValue()
	s.True(ok)
	s.True(confirm)

	s.Equal(1.0, promtest.ToFloat64(s.registry.CoreMetrics().RepairsTotal))
}

func (s *ConverterSuite) TestBraceInputFallsBackToJavaMap() {
	res, err := s.conv.ConvertString(s.ctx, testutil.MinimalNested)
	s.Require().NoError(err)

	s.Equal(FormatJavaMap, res.Format)
	s.Equal("Minutes", s.text(res.Tree, "A", "RerunLimit", "Units"))
}

func (s *ConverterSuite) TestRootJSONStringIsUnwrapped() {
	body, err := json.Marshal(testutil.WeekDaysBlock)
	s.Require().NoError(err)

	res, err := s.conv.Convert(s.ctx, body)
	s.Require().NoError(err)

	s.Equal(FormatJavaMap, res.Format)
	s.Equal([]string{"MON", "TUE", "WED", "THU", "FRI"}, res.Tree.Lookup("When", "WeekDays").Array().Texts())
}

func (s *ConverterSuite) TestNestedJSONStringIsUnwrappedOnce() {
	inner, err := json.Marshal(`{"a":1}`)
	s.Require().NoError(err)
	outer, err := json.Marshal(string(inner))
	s.Require().NoError(err)

	res, err := s.conv.Convert(s.ctx, outer)
	s.Require().NoError(err)
	s.Equal(parser.KindPrimitive, res.Tree.Kind())
	s.Equal(`{"a":1}`, s.text(res.Tree))
}

func (s *ConverterSuite) TestForcedFormats() {
	jsonOnly, err := New(WithFormat("json"))
	s.Require().NoError(err)

	_, err = jsonOnly.ConvertString(s.ctx, testutil.MinimalNested)
	s.Require().Error(err)
	s.True(errors.IsInvalid(err))

	mapOnly, err := New(WithFormat("javamap"))
	s.Require().NoError(err)

	res, err := mapOnly.ConvertString(s.ctx, `{a=1}`)
	s.Require().NoError(err)
	s.Equal(FormatJavaMap, res.Format)

	_, err = mapOnly.ConvertString(s.ctx, `{"a":1}`)
	s.Error(err)
}

func (s *ConverterSuite) TestErrors() {
	tests := []struct {
		name     string
		input    string
		sentinel error
		kind     string
	}{
		{"empty", "  \n ", parser.ErrEmptyInput, "empty_input"},
		{"unterminated", "{A={B=1}", parser.ErrMalformedStructure, "malformed_structure"},
		{"empty key", "{=1}", parser.ErrEmptyKey, "empty_key"},
		{"empty string body", `"  "`, parser.ErrEmptyInput, "empty_input"},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			res, err := s.conv.ConvertString(s.ctx, tt.input)
			s.Require().Error(err)
			s.Nil(res)
			s.ErrorIs(err, tt.sentinel)
			s.True(errors.IsInvalid(err))

			var pe *parser.ParseError
			s.True(stderrors.As(err, &pe))
			s.True(strings.HasPrefix(err.Error(), "Converter.Convert: decode payload failed: "))

			s.GreaterOrEqual(promtest.ToFloat64(s.registry.CoreMetrics().ParseErrorsTotal.WithLabelValues(tt.kind)), 1.0)
		})
	}
}

func (s *ConverterSuite) TestCancelledContext() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	_, err := s.conv.ConvertString(ctx, testutil.MinimalNested)
	s.ErrorIs(err, context.Canceled)
}

func (s *ConverterSuite) TestCustomParserAndNormalizer() {
	conv, err := New(
		WithParser(parser.NewJavaMapParser(parser.WithExtraDenylist("team"))),
		WithNormalizer(normalize.New(normalize.Config{EscapeFields: []string{"Body"}})),
	)
	s.Require().NoError(err)

	res, err := conv.ConvertString(s.ctx, "{Message=Hi, Team=ops, OS400-JOBD=LIB}")
	s.Require().NoError(err)
	s.Equal("Hi, Team=ops", s.text(res.Tree, "Message"))
	s.Equal("LIB", s.text(res.Tree, "OS400-JOBD"))
}

func TestParseFormat(t *testing.T) {
	cases := map[string]string{
		"":         FormatAuto,
		"auto":     FormatAuto,
		"JSON":     FormatJSON,
		"javamap":  FormatJavaMap,
		"java-map": FormatJavaMap,
		" map ":    FormatJavaMap,
	}
	for in, want := range cases {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", in, got, err, want)
		}
	}

	if _, err := ParseFormat("xml"); !stderrors.Is(err, errors.ErrUnsupportedFormat) {
		t.Errorf("ParseFormat(xml) error = %v, want ErrUnsupportedFormat", err)
	}
	if _, err := New(WithFormat("yaml")); err == nil {
		t.Error("New with unknown format should fail")
	}
}
