package hsmx_test

import (
	"context"
	"testing"

	"github.com/statomat/hsmx"
)

func BenchmarkInternalHandlerDelivery(b *testing.B) {
	s := hsmx.NewState("s").AddHandler(evA, func(context.Context, hsmx.Event) error {
		return nil
	})
	sched, err := hsmx.New(s)
	if err != nil {
		b.Fatal(err)
	}

	ctx := context.Background()
	evt := hsmx.NewEvent(evA, nil)
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if err := sched.Deliver(ctx, evt); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkTransitionDelivery(b *testing.B) {
	a := hsmx.NewState("a")
	c := hsmx.NewState("b")
	a.AddTransition(c, hsmx.On(evA))
	c.AddTransition(a, hsmx.On(evB))

	sched, err := hsmx.New(a)
	if err != nil {
		b.Fatal(err)
	}

	ctx := context.Background()
	there := hsmx.NewEvent(evA, nil)
	back := hsmx.NewEvent(evB, nil)
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if err := sched.Deliver(ctx, there); err != nil {
			b.Fatal(err)
		}
		if err := sched.Deliver(ctx, back); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkHierarchicalDelivery(b *testing.B) {
	leaf1 := hsmx.NewState("leaf1")
	leaf2 := hsmx.NewState("leaf2")
	leaf1.AddTransition(leaf2, hsmx.On(evA))
	leaf2.AddTransition(leaf1, hsmx.On(evB))
	parent := hsmx.NewSubstateMachine("parent", leaf1)

	sched, err := hsmx.New(parent)
	if err != nil {
		b.Fatal(err)
	}

	ctx := context.Background()
	there := hsmx.NewEvent(evA, nil)
	back := hsmx.NewEvent(evB, nil)
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if err := sched.Deliver(ctx, there); err != nil {
			b.Fatal(err)
		}
		if err := sched.Deliver(ctx, back); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkGuardedResolution(b *testing.B) {
	pass := hsmx.Guard(func(hsmx.Event) bool { return true })
	reject := hsmx.Not(pass)

	a := hsmx.NewState("a")
	c := hsmx.NewState("b")
	a.AddTransition(a, hsmx.On(evA), hsmx.When(reject)).
		AddTransition(c, hsmx.On(evA), hsmx.When(pass))
	c.AddTransition(a, hsmx.On(evB))

	sched, err := hsmx.New(a)
	if err != nil {
		b.Fatal(err)
	}

	ctx := context.Background()
	there := hsmx.NewEvent(evA, nil)
	back := hsmx.NewEvent(evB, nil)
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if err := sched.Deliver(ctx, there); err != nil {
			b.Fatal(err)
		}
		if err := sched.Deliver(ctx, back); err != nil {
			b.Fatal(err)
		}
	}
}
