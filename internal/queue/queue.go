package queue

import (
	"time"

	"github.com/huandu/skiplist"
	"github.com/segmentio/ksuid"
)

func New() *Queue {
	return &Queue{
		l: skiplist.New(
			skiplist.GreaterThanFunc(func(a, b interface{}) int {
				k1, k2 := a.(key), b.(key)
				if c := k1.Due.Compare(k2.Due); c != 0 {
					return c
				}
				if k1.Seq > k2.Seq {
					return 1
				} else if k1.Seq < k2.Seq {
					return -1
				}
				return 0
			}),
		),
		keys: make(map[ksuid.KSUID]key),
	}
}

// Queue is an ordered multimap of actions keyed by due time.
// Actions sharing a due time are kept in insertion order.
type Queue struct {
	l    *skiplist.SkipList
	keys map[ksuid.KSUID]key
	seq  uint64
}

func (q *Queue) Push(id ksuid.KSUID, due time.Time, fn func()) {
	q.seq++
	k := key{Due: due, Seq: q.seq}
	q.l.Set(k, action{ID: id, Due: due, Fn: fn})
	q.keys[id] = k
}

func (q *Queue) Has(id ksuid.KSUID) bool {
	_, ok := q.keys[id]
	return ok
}

func (q *Queue) Front() (ksuid.KSUID, time.Time, func()) {
	if e := q.l.Front(); e != nil {
		v := e.Value.(action)
		return v.ID, v.Due, v.Fn
	}
	return ksuid.KSUID{}, time.Time{}, nil
}

func (q *Queue) Remove(id ksuid.KSUID) (removed bool) {
	k, ok := q.keys[id]
	if !ok {
		return false
	}
	delete(q.keys, id)
	return q.l.Remove(k) != nil
}

func (q *Queue) Len() int {
	return q.l.Len()
}

func (q *Queue) Scan(
	after ksuid.KSUID,
	fn func(ksuid.KSUID, time.Time, func()) bool,
) (afterFound bool) {
	var start *skiplist.Element
	var zero ksuid.KSUID
	if after != zero {
		k, ok := q.keys[after]
		if !ok {
			return false
		}
		if start = q.l.Get(k); start == nil {
			return false
		}
		start = start.Next()
	} else {
		start = q.l.Front()
	}

	for e := start; e != nil; e = e.Next() {
		a := e.Value.(action)
		if !fn(a.ID, a.Due, a.Fn) {
			return true
		}
	}
	return true
}

// key orders actions by due time, ties broken by insertion sequence.
type key struct {
	Due time.Time
	Seq uint64
}

// action is an action descriptor.
type action struct {
	ID  ksuid.KSUID
	Due time.Time
	Fn  func()
}
