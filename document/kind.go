package document

// Kind is the closed set of document kinds a file resolves to.
type Kind string

const (
	KindPDFPlanSet  Kind = "pdf_plan_set"
	KindPDF         Kind = "pdf"
	KindSpreadsheet Kind = "spreadsheet"
	KindPhoto       Kind = "photo"
	KindSpecSheet   Kind = "spec_sheet"
	KindUnknown     Kind = "unknown"
)

// Kinds returns all known kinds in declaration order.
func Kinds() []Kind {
	return []Kind{KindPDFPlanSet, KindPDF, KindSpreadsheet, KindPhoto, KindSpecSheet, KindUnknown}
}

// ParseKind returns the kind for name, or KindUnknown when name is not a kind.
func ParseKind(name string) Kind {
	for _, k := range Kinds() {
		if string(k) == name {
			return k
		}
	}
	return KindUnknown
}

// IsPDF reports whether documents of this kind are read with the PDF codec.
func (k Kind) IsPDF() bool {
	return k == KindPDF || k == KindPDFPlanSet || k == KindSpecSheet
}

// HasText reports whether the kind carries extractable text.
func (k Kind) HasText() bool {
	return k.IsPDF() || k == KindSpreadsheet
}

// Label returns the human-facing tag for the kind.
func (k Kind) Label() string {
	switch k {
	case KindPDFPlanSet:
		return "Plan Set"
	case KindPDF:
		return "PDF"
	case KindSpecSheet:
		return "Spec Sheet"
	case KindSpreadsheet:
		return "Spreadsheet"
	case KindPhoto:
		return "Photo"
	}
	return "Unsupported"
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	for _, candidate := range Kinds() {
		if k == candidate {
			return true
		}
	}
	return false
}
