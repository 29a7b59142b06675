package document

import (
	"reflect"
	"testing"
)

func TestChunks_MarshalUnmarshal(t *testing.T) {
	original := Chunks{
		{ChunkIndex: 0, Text: "E1.1 ELECTRICAL PLAN", Provenance: Provenance{Page: 2}},
		{ChunkIndex: 1, Text: "HEADERS: name | kw | kwh", Provenance: Provenance{Sheet: "CSV", CellRange: "A1:C3"}},
	}
	data, err := MarshalChunks(original)
	if err != nil {
		t.Fatalf("MarshalChunks failed: %v", err)
	}
	decoded, err := UnmarshalChunks(data)
	if err != nil {
		t.Fatalf("UnmarshalChunks failed: %v", err)
	}
	if !reflect.DeepEqual(original, decoded) {
		t.Fatalf("chunks mismatch: got %+v, want %+v", decoded, original)
	}
}

func TestChunks_Validate(t *testing.T) {
	tests := []struct {
		name    string
		chunks  Chunks
		wantErr bool
	}{
		{name: "empty", chunks: nil},
		{name: "increasing", chunks: Chunks{{ChunkIndex: 0, Text: "a"}, {ChunkIndex: 1, Text: "b"}}},
		{name: "repeated index", chunks: Chunks{{ChunkIndex: 0, Text: "a"}, {ChunkIndex: 0, Text: "b"}}, wantErr: true},
		{name: "empty text", chunks: Chunks{{ChunkIndex: 0}}, wantErr: true},
	}
	for _, tt := range tests {
		err := tt.chunks.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: Validate() error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestParseKind(t *testing.T) {
	if got := ParseKind("spec_sheet"); got != KindSpecSheet {
		t.Fatalf("expected spec_sheet, got %s", got)
	}
	if got := ParseKind("docx"); got != KindUnknown {
		t.Fatalf("expected unknown, got %s", got)
	}
	if !KindSpecSheet.IsPDF() || KindPhoto.HasText() {
		t.Fatalf("unexpected kind capabilities")
	}
}

func TestKindLabel(t *testing.T) {
	if KindPDFPlanSet.Label() != "Plan Set" || KindUnknown.Label() != "Unsupported" {
		t.Fatalf("unexpected labels")
	}
	if Kind("docx").Valid() || !KindPhoto.Valid() {
		t.Fatalf("unexpected validity")
	}
}
