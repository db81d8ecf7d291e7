package badclone

import (
	"context"

	"github.com/yungbote/temporalguard/defn"
	"github.com/yungbote/temporalguard/options"
)

type Request struct {
	Ref string
}

type Result struct {
	Ref  string
	Done bool
}

// ReportService declares default call options for Summarize but none for
// Publish.
type ReportService struct {
	OptsSummarize map[string]any
}

func NewReportService() *ReportService {
	return &ReportService{OptsSummarize: options.DefaultActivityCallOptions()}
}

func (s *ReportService) Summarize(ctx context.Context, in Request) (Result, error) {
	return Result{Ref: in.Ref, Done: true}, nil
}

func (s *ReportService) Publish(ctx context.Context, in Request) (Result, error) {
	return Result{Ref: in.Ref, Done: true}, nil
}

func init() {
	defn.MustActivity(&ReportService{}, "Summarize", "Publish")
}

// Declarations lists this file's members in declaration order.
func Declarations() []any {
	return []any{
		NewReportService(),
		Request{},
		Result{},
	}
}
