package inspector

import "testing"

func TestParseTag(t *testing.T) {
	tests := []struct {
		tag    string
		widget Widget
		opts   map[string]string
	}{
		{"", WidgetAuto, map[string]string{}},
		{"bar", WidgetBar, map[string]string{}},
		{"bar,max:1.5", WidgetBar, map[string]string{"max": "1.5"}},
		{"label,fmt:%.4f", WidgetLabel, map[string]string{"fmt": "%.4f"}},
		{"bar, labels:low|mid|high", WidgetBar, map[string]string{"labels": "low|mid|high"}},
		{"skip", WidgetSkip, map[string]string{}},
		{"mystery,junk", WidgetAuto, map[string]string{}},
	}
	for _, tt := range tests {
		w, opts := ParseTag(tt.tag)
		if w != tt.widget {
			t.Errorf("ParseTag(%q) widget = %v, want %v", tt.tag, w, tt.widget)
		}
		if len(opts) != len(tt.opts) {
			t.Errorf("ParseTag(%q) options = %v, want %v", tt.tag, opts, tt.opts)
			continue
		}
		for k, v := range tt.opts {
			if opts[k] != v {
				t.Errorf("ParseTag(%q) option %s = %q, want %q", tt.tag, k, opts[k], v)
			}
		}
	}
}

type sample struct {
	Frame   int64      `inspect:"label"`
	Bands   [3]float64 `inspect:"bar,labels:low|mid|high"`
	Active  bool
	Level   float64
	Hidden  float64 `inspect:"skip"`
	private int
}

func TestExtractFields(t *testing.T) {
	s := sample{Frame: 12, Bands: [3]float64{0.1, 0.2, 0.3}, Active: true, Level: 0.5, private: 1}
	fields := ExtractFields(&s)

	want := []struct {
		name   string
		widget Widget
	}{
		{"Frame", WidgetLabel},
		{"Bands", WidgetBar},
		{"Active", WidgetBool},
		{"Level", WidgetLabel},
	}
	if len(fields) != len(want) {
		t.Fatalf("got %d fields, want %d", len(fields), len(want))
	}
	for i, w := range want {
		if fields[i].Name != w.name || fields[i].Widget != w.widget {
			t.Errorf("field %d = %s/%v, want %s/%v", i, fields[i].Name, fields[i].Widget, w.name, w.widget)
		}
	}

	vals, ok := GetFloatSlice(fields[1].Value)
	if !ok || len(vals) != 3 || vals[2] != 0.3 {
		t.Errorf("GetFloatSlice = %v, %v", vals, ok)
	}
	if labels := parseLabels(fields[1].Options, 3); len(labels) != 3 || labels[1] != "mid" {
		t.Errorf("labels = %v", labels)
	}
	if labels := parseLabels(fields[1].Options, 2); labels != nil {
		t.Errorf("mismatched label count should give nil, got %v", labels)
	}

	if ExtractFields(42) != nil {
		t.Error("non-struct should yield nil")
	}
	var nilPtr *sample
	if ExtractFields(nilPtr) != nil {
		t.Error("nil pointer should yield nil")
	}
}

func TestFormatValueAndMax(t *testing.T) {
	if got := FormatValue(0.12345, ""); got != "0.12" {
		t.Errorf("FormatValue float = %q", got)
	}
	if got := FormatValue(0.25, "%.3f"); got != "0.250" {
		t.Errorf("FormatValue fmt = %q", got)
	}
	if got := FormatValue(7, ""); got != "7" {
		t.Errorf("FormatValue int = %q", got)
	}
	if got := GetMax(map[string]string{"max": "0.4"}); got != float32(0.4) {
		t.Errorf("GetMax = %v", got)
	}
	if got := GetMax(map[string]string{"max": "nope"}); got != 1 {
		t.Errorf("GetMax fallback = %v", got)
	}
}
