package io

import (
	"context"
	"sync"
)

type Consumer interface {
	Consume(ctx context.Context, workchan chan *WorkUnit, errchan chan error, wg *sync.WaitGroup)
}
