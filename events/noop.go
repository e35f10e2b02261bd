package events

import "context"

// noopBus 丢弃所有事件（非导出）
type noopBus struct {
	instance string
}

func (b *noopBus) Publish(ctx context.Context, event *Event) error {
	if event == nil {
		return ErrEventNil
	}
	return nil
}

func (b *noopBus) Close() error {
	return nil
}
