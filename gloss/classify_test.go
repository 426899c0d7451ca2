package gloss

import (
	"reflect"
	"testing"
)

func TestClassify(t *testing.T) {
	link := &Rich{Kind: RichLink, Href: "https://example.com", Children: []Span{Text("dog")}}

	tests := []struct {
		name      string
		line      Line
		wantRole  Role
		wantWords []Word
		wantSpans []Span
	}{
		{
			name:      "no marker",
			line:      Line{Words: words("The", "dog")},
			wantRole:  RoleText,
			wantWords: words("The", "dog"),
		},
		{
			name:      "transliteration with space",
			line:      Line{Words: words("/", "le", "chien")},
			wantRole:  RoleTransliteration,
			wantWords: words("le", "chien"),
		},
		{
			name:      "transliteration without space",
			line:      Line{Words: words("/le", "chien")},
			wantRole:  RoleTransliteration,
			wantWords: words("le", "chien"),
		},
		{
			name:      "gloss",
			line:      Line{Words: words("=", "the", "dog")},
			wantRole:  RoleGloss,
			wantWords: words("the", "dog"),
		},
		{
			name:      "marker alone leaves no words",
			line:      Line{Words: words("=")},
			wantRole:  RoleGloss,
			wantWords: []Word{},
		},
		{
			name:      "meta is flattened",
			line:      Line{Words: words("|", "A", "caption")},
			wantRole:  RoleMeta,
			wantSpans: []Span{Text("A"), Text(" "), Text("caption")},
		},
		{
			name:      "meta glued to text",
			line:      Line{Words: words("|Only", "this")},
			wantRole:  RoleMeta,
			wantSpans: []Span{Text("Only"), Text(" "), Text("this")},
		},
		{
			name:      "emptied span is dropped but rest of word is kept",
			line:      Line{Words: []Word{{Text("="), link}, {Text("runs")}}},
			wantRole:  RoleGloss,
			wantWords: []Word{{link}, {Text("runs")}},
		},
		{
			name:      "meta with rich content",
			line:      Line{Words: []Word{{Text("|")}, {Text("see")}, {link, Text("s")}}},
			wantRole:  RoleMeta,
			wantSpans: []Span{Text("see"), Text(" "), link, Text("s")},
		},
		{
			name:      "rich first span is text",
			line:      Line{Words: []Word{{link}, {Text("=")}}},
			wantRole:  RoleText,
			wantWords: []Word{{link}, {Text("=")}},
		},
		{
			name:      "marker inside word is not a marker",
			line:      Line{Words: words("a=b", "|")},
			wantRole:  RoleText,
			wantWords: words("a=b", "|"),
		},
		{
			name:      "empty line",
			line:      Line{},
			wantRole:  RoleText,
			wantWords: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.line)
			if got.Role != tt.wantRole {
				t.Errorf("Classify() role = %v, want %v", got.Role, tt.wantRole)
			}
			if !reflect.DeepEqual(got.Words, tt.wantWords) {
				t.Errorf("Classify() words = %#v, want %#v", got.Words, tt.wantWords)
			}
			if !reflect.DeepEqual(got.Spans, tt.wantSpans) {
				t.Errorf("Classify() spans = %#v, want %#v", got.Spans, tt.wantSpans)
			}
		})
	}
}

func TestClassify_DoesNotModifyInput(t *testing.T) {
	line := Line{Words: words("=", "the", "dog"), Source: 3}
	before := ExtractLines(stream("= the dog"))[0].Words

	got := Classify(line)
	if got.Source != 3 {
		t.Errorf("Classify() source = %d, want 3", got.Source)
	}
	if !reflect.DeepEqual(line.Words, before) {
		t.Errorf("Classify() modified input words: %#v", line.Words)
	}
}

func TestRole_String(t *testing.T) {
	tests := []struct {
		role Role
		want string
	}{
		{RoleText, "text"},
		{RoleTransliteration, "transliteration"},
		{RoleGloss, "gloss"},
		{RoleMeta, "meta"},
		{Role(42), "Role(42)"},
	}
	for _, tt := range tests {
		if got := tt.role.String(); got != tt.want {
			t.Errorf("Role(%d).String() = %q, want %q", int(tt.role), got, tt.want)
		}
	}
}
