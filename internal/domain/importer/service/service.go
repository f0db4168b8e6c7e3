// Package service wires file-type detection, the format parsers, and the
// merchant resolver into a single statement-import entry point.
package service

import (
	"fmt"
	"log/slog"

	"github.com/clearspend/statement-core/internal/domain/importer/normalizer"
	"github.com/clearspend/statement-core/internal/domain/importer/parser"
	"github.com/clearspend/statement-core/internal/domain/importer/sniffer"
	"github.com/clearspend/statement-core/internal/domain/ledger"
	"github.com/clearspend/statement-core/pkg/config"
)

// Service parses statement files into ParsedStatements. One Service can
// parse many files; each parse is independent and side-effect-free.
type Service struct {
	logger    *slog.Logger
	resolver  *normalizer.Resolver
	delimited *parser.DelimitedParser
	excel     *parser.ExcelParser
	document  *parser.DocumentParser
}

// NewService builds an import service from config. Diagnostics from the
// parsers are forwarded to the logger.
func NewService(cfg *config.Config, logger *slog.Logger) *Service {
	resolver := normalizer.NewResolver(cfg.Classification.FuzzyThreshold)
	opts := parser.Options{
		DefaultCurrency: cfg.Parsing.DefaultCurrency,
		Sink:            slogSink{logger: logger},
	}
	return &Service{
		logger:    logger,
		resolver:  resolver,
		delimited: parser.NewDelimitedParser(resolver, opts),
		excel:     parser.NewExcelParser(resolver, opts),
		document:  parser.NewDocumentParser(resolver, opts),
	}
}

// Resolver exposes the shared merchant resolver so classification uses the
// same canonical names the parsers produced.
func (s *Service) Resolver() *normalizer.Resolver {
	return s.resolver
}

// ParseFile parses a delimited or spreadsheet statement file. Rendered
// documents go through ParseDocument since text extraction happens upstream.
func (s *Service) ParseFile(filename, contentType string, data []byte) (ledger.ParsedStatement, error) {
	kind, err := sniffer.DetectKind(filename, contentType)
	if err != nil {
		return ledger.ParsedStatement{}, err
	}

	var stmt ledger.ParsedStatement
	switch kind {
	case sniffer.KindDelimited:
		stmt, err = s.delimited.Parse(filename, data)
	case sniffer.KindExcel:
		stmt, err = s.excel.Parse(filename, data)
	case sniffer.KindDocument:
		return ledger.ParsedStatement{}, fmt.Errorf("parse %s: rendered documents need extracted text, use ParseDocument", filename)
	default:
		return ledger.ParsedStatement{}, fmt.Errorf("parse %s: %w", filename, sniffer.ErrUnsupportedFileType)
	}
	if err != nil {
		return ledger.ParsedStatement{}, err
	}

	s.logParsed(stmt)
	return stmt, nil
}

// ParseDocument parses extracted rendered-document text. progress may be nil;
// when set it receives per-page completion counts.
func (s *Service) ParseDocument(filename string, doc parser.Document, progress func(done, total int)) (ledger.ParsedStatement, error) {
	stmt, err := s.document.Parse(filename, doc, progress)
	if err != nil {
		return ledger.ParsedStatement{}, err
	}
	s.logParsed(stmt)
	return stmt, nil
}

// Merge combines statements from several files into one chronological,
// de-duplicated transaction list.
func (s *Service) Merge(statements ...ledger.ParsedStatement) ledger.ParsedStatement {
	return ledger.Merge(statements...)
}

func (s *Service) logParsed(stmt ledger.ParsedStatement) {
	report := ledger.Validate(stmt)
	s.logger.Info("statement parsed",
		slog.String("file", stmt.Filename),
		slog.Int("transactions", len(stmt.Transactions)),
		slog.Int("validation_issues", len(report.Issues)))
	for _, issue := range report.Issues {
		s.logger.Warn("validation issue",
			slog.String("file", stmt.Filename),
			slog.String("type", issue.Type),
			slog.Int("affected_rows", issue.AffectedRows))
	}
}

// slogSink adapts a slog.Logger to the parser diagnostic interface.
type slogSink struct {
	logger *slog.Logger
}

func (s slogSink) Emit(d parser.Diagnostic) {
	attrs := []any{
		slog.String("code", d.Code),
		slog.String("file", d.File),
		slog.Int("line", d.Line),
	}
	if d.Level == "warn" {
		s.logger.Warn(d.Message, attrs...)
		return
	}
	s.logger.Info(d.Message, attrs...)
}
