package workbook

// Options bounds the table scan and the chunk previews.
type Options struct {
	MaxRows           int `yaml:"maxRows,omitempty"`
	MaxCols           int `yaml:"maxCols,omitempty"`
	MaxSheets         int `yaml:"maxSheets,omitempty"`
	MaxTablesPerSheet int `yaml:"maxTablesPerSheet,omitempty"`
	SampleRows        int `yaml:"sampleRows,omitempty"`
	SampleCells       int `yaml:"sampleCells,omitempty"`
	FormulaSampleRows int `yaml:"formulaSampleRows,omitempty"`
	PreviewRows       int `yaml:"previewRows,omitempty"`
	CSVPreviewCols    int `yaml:"csvPreviewCols,omitempty"`
}

// DefaultOptions returns the standard scan bounds.
func DefaultOptions() Options {
	return Options{
		MaxRows:           200,
		MaxCols:           60,
		MaxSheets:         50,
		MaxTablesPerSheet: 50,
		SampleRows:        9,
		SampleCells:       8,
		FormulaSampleRows: 60,
		PreviewRows:       25,
		CSVPreviewCols:    24,
	}
}

// Init fills unset fields with defaults.
func (o *Options) Init() {
	def := DefaultOptions()
	setDefault(&o.MaxRows, def.MaxRows)
	setDefault(&o.MaxCols, def.MaxCols)
	setDefault(&o.MaxSheets, def.MaxSheets)
	setDefault(&o.MaxTablesPerSheet, def.MaxTablesPerSheet)
	setDefault(&o.SampleRows, def.SampleRows)
	setDefault(&o.SampleCells, def.SampleCells)
	setDefault(&o.FormulaSampleRows, def.FormulaSampleRows)
	setDefault(&o.PreviewRows, def.PreviewRows)
	setDefault(&o.CSVPreviewCols, def.CSVPreviewCols)
}

func setDefault(v *int, def int) {
	if *v <= 0 {
		*v = def
	}
}
