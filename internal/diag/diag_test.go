package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"convlint/internal/source"
)

func TestCodeIDs(t *testing.T) {
	tests := []struct {
		code Code
		id   string
		cat  string
	}{
		{DsnSerializedNullGuard, "DSN1001", "Design"},
		{NamPrivatePrefix, "NAM2002", "Naming"},
		{StyMemberOrder, "STY3002", "Style"},
		{DocEnumMember, "DOC4001", "Documentation"},
		{IOLoadFileError, "IO5001", "IO"},
		{UnknownCode, "E0000", "Unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.id, tt.code.ID())
			assert.Equal(t, tt.cat, tt.code.Category())
		})
	}
	assert.Equal(t, "[STY3002]: Member declared out of order", StyMemberOrder.String())
	assert.Equal(t, "Unknown error", Code(9999).Title())
}

func TestParseCode(t *testing.T) {
	c, ok := ParseCode("STY3002")
	require.True(t, ok)
	assert.Equal(t, StyMemberOrder, c)

	c, ok = ParseCode("4001")
	require.True(t, ok)
	assert.Equal(t, DocEnumMember, c)

	for _, bad := range []string{"DSN3002", "STY9999", "VUA0001", ""} {
		_, ok := ParseCode(bad)
		assert.False(t, ok, bad)
	}
}

func TestParseSeverity(t *testing.T) {
	for in, want := range map[string]Severity{"error": SevError, "Warn": SevWarning, " info ": SevInfo} {
		got, ok := ParseSeverity(in)
		require.True(t, ok, in)
		assert.Equal(t, want, got)
	}
	_, ok := ParseSeverity("fatal")
	assert.False(t, ok)
}

func TestRuleNew(t *testing.T) {
	r := Rule{
		Code:     StyMemberOrder,
		Format:   "'%[1]s' (%[2]s) should come before %[3]s",
		Severity: SevWarning,
	}
	sp := source.Span{File: 1, Start: 10, End: 15}
	d := r.New(sp, "Value", "public properties", "private fields")

	assert.Equal(t, "'Value' (public properties) should come before private fields", d.Message)
	assert.Equal(t, []string{"Value", "public properties", "private fields"}, d.Args)
	assert.Equal(t, "Value", d.Arg(0))
	assert.Equal(t, "", d.Arg(5))
	assert.Equal(t, sp, d.Primary)
	assert.Equal(t, SevWarning, d.Severity)
	assert.Equal(t, "STY3002", r.ID())
}

func TestBagLimitSortDedup(t *testing.T) {
	b := NewBag(3)
	d1 := Diagnostic{Code: StyMemberOrder, Severity: SevWarning, Primary: source.Span{Start: 20, End: 25}}
	d2 := Diagnostic{Code: DsnGuardedCancel, Severity: SevError, Primary: source.Span{Start: 5, End: 9}}

	assert.True(t, b.Add(d1))
	assert.True(t, b.Add(d2))
	assert.True(t, b.Add(d1))
	assert.False(t, b.Add(d2), "limit reached")
	assert.Equal(t, 1, b.AddAll([]Diagnostic{d1}))

	b.Dedup()
	require.Equal(t, 2, b.Len())

	b.Sort()
	assert.Equal(t, DsnGuardedCancel, b.Items()[0].Code)
	assert.True(t, b.HasErrors())
	assert.True(t, b.HasWarnings())
	assert.Equal(t, map[Code]int{StyMemberOrder: 1, DsnGuardedCancel: 1}, b.CountByCode())
}

func TestBagMergeFilterTransform(t *testing.T) {
	a := NewBag(1)
	a.Add(Diagnostic{Code: StyExpressionBody, Severity: SevInfo})
	other := NewBag(4)
	other.Add(Diagnostic{Code: DocEnumMember, Severity: SevWarning})
	other.Add(Diagnostic{Code: DocEnumMember, Severity: SevWarning, Message: "x"})

	a.Merge(other)
	assert.Equal(t, 3, a.Len())
	assert.Equal(t, uint32(3), a.Cap())

	a.Filter(func(d Diagnostic) bool { return d.Code == DocEnumMember })
	assert.Equal(t, 2, a.Len())

	a.Transform(func(d Diagnostic) Diagnostic { return d.WithSeverity(SevError) })
	assert.True(t, a.HasErrors())
}

func TestReportBuilderAndDedup(t *testing.T) {
	bag := NewBag(10)
	r := NewDedupReporter(NewBagReporter(bag))
	sp := source.Span{File: 2, Start: 1, End: 2}

	ReportError(r, IOLoadFileError, sp, "cannot read").WithArgs("a.json").WithNote(sp, "here").Emit()
	ReportError(r, IOLoadFileError, sp, "cannot read").Emit()
	b := ReportWarning(r, IODecodeError, sp, "bad yaml")
	b.Emit()
	b.Emit()

	require.Equal(t, 2, bag.Len())
	first := bag.Items()[0]
	assert.Equal(t, []string{"a.json"}, first.Args)
	require.Len(t, first.Notes, 1)
	assert.Equal(t, "here", first.Notes[0].Msg)

	var nilBuilder *ReportBuilder
	assert.Nil(t, nilBuilder.WithNote(sp, "x"))
	assert.Equal(t, Diagnostic{}, nilBuilder.Diagnostic())
}

func TestMultiReporter(t *testing.T) {
	var got []Code
	m := MultiReporter{
		ReporterFunc(func(d Diagnostic) { got = append(got, d.Code) }),
		nil,
		ReporterFunc(func(d Diagnostic) { got = append(got, d.Code+1) }),
	}
	ReportInfo(m, IOInfo, source.Span{}, "hi").Emit()
	assert.Equal(t, []Code{IOInfo, IOInfo + 1}, got)
}
