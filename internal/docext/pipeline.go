package docext

import (
	"context"
	"log/slog"
)

// Processor sequences acquisition and field extraction. Acquisition
// failures short-circuit: extraction never runs without text.
type Processor struct {
	acquirer *Acquirer
	fields   *Extractor
	logger   *slog.Logger
}

func NewProcessor(acquirer *Acquirer, fields *Extractor, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{acquirer: acquirer, fields: fields, logger: logger}
}

// Process runs the full pipeline for one document. Identical inputs yield
// identical results: no state survives an invocation.
func (p *Processor) Process(ctx context.Context, doc RawDocument) (PatientFields, error) {
	nt, err := p.acquirer.Acquire(ctx, doc)
	if err != nil {
		p.logger.Warn("acquisition failed",
			"filename", doc.Filename, "kind", string(KindOf(err)), "error", err)
		return PatientFields{}, err
	}

	res := p.fields.Extract(nt.Text, nt.UsedOCR)
	p.logger.Info("document processed",
		"filename", doc.Filename,
		"text_bytes", len(nt.Text),
		"used_ocr", nt.UsedOCR,
	)
	return res, nil
}
