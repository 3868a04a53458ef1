package game

import "sync"

// ChatLocks serializes work per chat. Entries are reference counted and
// dropped once nobody holds or waits on them.
type ChatLocks struct {
	mu    sync.Mutex
	locks map[int64]*chatLock
}

type chatLock struct {
	mu   sync.Mutex
	refs int
}

func NewChatLocks() *ChatLocks {
	return &ChatLocks{locks: make(map[int64]*chatLock)}
}

// Lock acquires the lock for chatId and returns its release func.
func (l *ChatLocks) Lock(chatId int64) func() {
	l.mu.Lock()
	cl, ok := l.locks[chatId]
	if !ok {
		cl = &chatLock{}
		l.locks[chatId] = cl
	}
	cl.refs++
	l.mu.Unlock()

	cl.mu.Lock()

	return func() {
		cl.mu.Unlock()

		l.mu.Lock()
		cl.refs--
		if cl.refs == 0 {
			delete(l.locks, chatId)
		}
		l.mu.Unlock()
	}
}

// Len returns the number of chats currently locked or awaited.
func (l *ChatLocks) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
