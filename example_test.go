package seqgo_test

import (
	"bytes"
	"fmt"
	"log"

	"github.com/hupe1980/seqgo"
	"github.com/hupe1980/seqgo/snapshot"
)

// Example demonstrates basic sequence usage with plain values.
func Example() {
	s := seqgo.New[int]()
	defer s.Close()

	for i := 1; i <= 3; i++ {
		if err := s.PushBack(i * 10); err != nil {
			log.Fatal(err)
		}
	}
	if err := s.Insert(1, 15); err != nil {
		log.Fatal(err)
	}

	for _, v := range s.All() {
		fmt.Println(v)
	}
	// Output:
	// 10
	// 15
	// 20
	// 30
}

// Example_lifecycleHooks demonstrates element types that manage resources.
func Example_lifecycleHooks() {
	type handle struct{ id int }

	released := 0
	ops := seqgo.Ops[handle]{
		Copy: func(src *handle) (handle, error) { return handle{id: src.id}, nil },
		Destroy: func(ptr *handle) {
			released++
		},
	}

	s := seqgo.New[handle](seqgo.WithOps(ops))
	for i := 0; i < 4; i++ {
		if err := s.PushBack(handle{id: i}); err != nil {
			log.Fatal(err)
		}
	}
	s.Close()

	fmt.Println("released:", released)
	// Output: released: 4
}

// Example_snapshot demonstrates persisting a sequence and reading it back.
func Example_snapshot() {
	type point struct {
		X, Y int
	}

	s := seqgo.New[point]()
	defer s.Close()
	_ = s.PushBack(point{X: 1, Y: 2})
	_ = s.PushBack(point{X: 3, Y: 4})

	var buf bytes.Buffer
	if err := snapshot.Save(&buf, s, snapshot.WithCompression(snapshot.CompressionZSTD)); err != nil {
		log.Fatal(err)
	}

	loaded, err := snapshot.Load[point](&buf)
	if err != nil {
		log.Fatal(err)
	}
	defer loaded.Close()

	fmt.Println(loaded.Len(), loaded.Get(1))
	// Output: 2 {3 4}
}
