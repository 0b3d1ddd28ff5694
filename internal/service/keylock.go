package service

import (
	"fmt"
	"sync"
)

// KeyLocker 按 (userID, programID) 串行化同一条报名记录上的读-改-写，
// 防止并发勾选互相覆盖台账
type KeyLocker struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func NewKeyLocker() *KeyLocker {
	return &KeyLocker{locks: make(map[string]*lockEntry)}
}

func enrollmentKey(userID, programID uint) string {
	return fmt.Sprintf("%d:%d", userID, programID)
}

// Lock 获取键对应的互斥锁，返回解锁函数
func (k *KeyLocker) Lock(userID, programID uint) func() {
	key := enrollmentKey(userID, programID)

	k.mu.Lock()
	entry, ok := k.locks[key]
	if !ok {
		entry = &lockEntry{}
		k.locks[key] = entry
	}
	entry.refs++
	k.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()
		k.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
