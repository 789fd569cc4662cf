package llm

import "testing"

func TestExtractJSONSpan(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{
			name: "bare object",
			in:   `{"a": 1}`,
			want: `{"a": 1}`,
			ok:   true,
		},
		{
			name: "prose around object",
			in:   "Here is the result:\n{\"a\": 1}\nHope that helps!",
			want: `{"a": 1}`,
			ok:   true,
		},
		{
			name: "fenced json block preferred",
			in:   "ignore {\"decoy\": true}\n```json\n{\"a\": 1}\n```",
			want: "{\"a\": 1}",
			ok:   true,
		},
		{
			name: "fence without language tag",
			in:   "```\n{\"b\": 2}\n```",
			want: "{\"b\": 2}",
			ok:   true,
		},
		{
			name: "nested braces",
			in:   `result: {"outer": {"inner": {"deep": 1}}} done`,
			want: `{"outer": {"inner": {"deep": 1}}}`,
			ok:   true,
		},
		{
			name: "braces inside strings do not confuse the scanner",
			in:   `{"text": "uses { and } inside", "n": 1}`,
			want: `{"text": "uses { and } inside", "n": 1}`,
			ok:   true,
		},
		{
			name: "escaped quotes inside strings",
			in:   `{"text": "quote \" and brace }", "n": 2}`,
			want: `{"text": "quote \" and brace }", "n": 2}`,
			ok:   true,
		},
		{
			name: "largest span wins",
			in:   `{"small": 1} and {"bigger": {"than": "the first one"}}`,
			want: `{"bigger": {"than": "the first one"}}`,
			ok:   true,
		},
		{
			name: "no json at all",
			in:   "I could not produce a result.",
			ok:   false,
		},
		{
			name: "unbalanced braces",
			in:   `{"a": 1`,
			ok:   false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ExtractJSONSpan(tc.in)
			if ok != tc.ok {
				t.Fatalf("ExtractJSONSpan ok = %v, want %v", ok, tc.ok)
			}
			if ok && got != tc.want {
				t.Fatalf("ExtractJSONSpan = %q, want %q", got, tc.want)
			}
		})
	}
}
