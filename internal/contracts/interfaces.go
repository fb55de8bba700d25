package contracts

import "context"

// Source produces the series a run starts from (load stage)
// ⭐ SSOT: 입력 소스 인터페이스
type Source interface {
	Kind() string
	Load(ctx context.Context) (*TimeSeries, error)
}

// Sink renders a scored series (render stage).
// Implementations must not modify the series.
// ⭐ SSOT: 출력 인터페이스
type Sink interface {
	Name() string
	Write(ctx context.Context, ts *TimeSeries) error
}
