package clone1

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

type Config struct {
	QueueName string
}

type DataService struct {
	OptsFetch map[string]any
	OptsStore map[string]any
}

func NewDataService() *DataService {
	return &DataService{
		OptsFetch: options.DefaultActivityCallOptions(),
		OptsStore: options.DefaultActivityCallOptions(),
	}
}

func (s *DataService) Fetch(ctx context.Context, in Request) (Result, error) {
	return Result{Ref: in.Ref, Done: true}, nil
}

func (s *DataService) Store(ctx context.Context, in Request) (Result, error) {
	return Result{Ref: in.Ref, Done: true}, nil
}

type StreamService struct {
	OptsOpen  map[string]any
	OptsClose map[string]any
}

func NewStreamService() *StreamService {
	return &StreamService{
		OptsOpen:  options.DefaultActivityCallOptions(),
		OptsClose: options.DefaultActivityCallOptions(),
	}
}

func (s *StreamService) Open(ctx context.Context, in Request) (Result, error) {
	return Result{Ref: in.Ref, Done: true}, nil
}

func (s *StreamService) Close(ctx context.Context, in Request) (Result, error) {
	return Result{Ref: in.Ref}, nil
}

type ArchiveService struct {
	OptsPack   map[string]any
	OptsUnpack map[string]any
}

func NewArchiveService() *ArchiveService {
	return &ArchiveService{
		OptsPack:   options.DefaultActivityCallOptions(),
		OptsUnpack: options.DefaultActivityCallOptions(),
	}
}

func (s *ArchiveService) Pack(ctx context.Context, in Request) (Result, error) {
	return Result{Ref: in.Ref, Done: true}, nil
}

func (s *ArchiveService) Unpack(ctx context.Context, in Request) (Result, error) {
	return Result{Ref: in.Ref, Done: true}, nil
}

func init() {
	defn.MustActivity(&DataService{}, "Fetch", "Store")
	defn.MustActivity(&StreamService{}, "Open", "Close")
	defn.MustActivity(&ArchiveService{}, "Pack", "Unpack")
}

// Declarations lists this file's members in declaration order.
func Declarations() []any {
	return []any{
		NewDataService(),
		NewStreamService(),
		NewArchiveService(),
		Request{},
		Result{},
		Config{},
	}
}
