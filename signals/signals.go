// SPDX-FileCopyrightText: 2023 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package signals provides listener lists with synchronous multicast
// dispatch in registration order.
package signals

// HandlerId identifies a connected handler. Zero is never returned by
// Connect.
type HandlerId uint64

type entry[F any] struct {
	id HandlerId
	fn F
}

// List holds the handlers of one signal. The zero value is ready to use.
// A List is not safe for concurrent use; it belongs to the event loop.
type List[F any] struct {
	nextId   HandlerId
	handlers []entry[F]
}

func (l *List[F]) Connect(fn F) HandlerId {
	l.nextId++
	l.handlers = append(l.handlers, entry[F]{id: l.nextId, fn: fn})
	return l.nextId
}

// Disconnect removes the handler and reports whether it was connected.
func (l *List[F]) Disconnect(id HandlerId) bool {
	for i, h := range l.handlers {
		if h.id == id {
			handlers := make([]entry[F], 0, len(l.handlers)-1)
			handlers = append(handlers, l.handlers[:i]...)
			handlers = append(handlers, l.handlers[i+1:]...)
			l.handlers = handlers
			return true
		}
	}
	return false
}

func (l *List[F]) Len() int {
	return len(l.handlers)
}

// Emit calls fn once per handler, in registration order. The handler set
// is snapshotted first, so handlers may connect or disconnect while the
// emission is running; a handler disconnected during the emission is
// skipped if it has not been reached yet.
func (l *List[F]) Emit(call func(fn F)) {
	snapshot := l.handlers
	for _, h := range snapshot {
		if !l.connected(h.id) {
			continue
		}
		call(h.fn)
	}
}

func (l *List[F]) connected(id HandlerId) bool {
	for _, h := range l.handlers {
		if h.id == id {
			return true
		}
	}
	return false
}
