// SPDX-FileCopyrightText: 2023 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package leisure

import (
	"testing"

	C "gopkg.in/check.v1"
)

type fakeIdler struct {
	queue []func()
}

func (f *fakeIdler) IdleAdd(fn func()) {
	f.queue = append(f.queue, fn)
}

func (f *fakeIdler) runOne() bool {
	if len(f.queue) == 0 {
		return false
	}
	fn := f.queue[0]
	f.queue = f.queue[1:]
	fn()
	return true
}

func (f *fakeIdler) runAll() {
	for f.runOne() {
	}
}

type leisureTester struct {
	idler *fakeIdler
	s     *Scheduler
}

func Test(t *testing.T) { C.TestingT(t) }

func init() {
	C.Suite(&leisureTester{})
}

func (t *leisureTester) SetUpTest(c *C.C) {
	t.idler = &fakeIdler{}
	t.s = NewScheduler(t.idler)
}

func (t *leisureTester) TestNestedWork(c *C.C) {
	t.s.BeginWork()
	t.s.BeginWork()
	t.s.EndWork()
	c.Check(t.s.WorkCount(), C.Equals, uint(1))
	c.Check(len(t.idler.queue), C.Equals, 0)

	t.s.EndWork()
	c.Check(t.s.WorkCount(), C.Equals, uint(0))
	c.Check(len(t.idler.queue), C.Equals, 1)
	c.Check(t.s.Scheduled(), C.Equals, true)
}

func (t *leisureTester) TestUnmatchedEndWork(c *C.C) {
	c.Check(func() { t.s.EndWork() }, C.PanicMatches, "leisure: EndWork.*")
	c.Check(t.s.WorkCount(), C.Equals, uint(0))

	t.s.BeginWork()
	t.s.EndWork()
	c.Check(func() { t.s.EndWork() }, C.PanicMatches, "leisure: EndWork.*")
}

func (t *leisureTester) TestNotRunInline(c *C.C) {
	var got []string
	t.s.RunAtLeisure(func(data interface{}) {
		got = append(got, data.(string))
	}, "a", nil)
	c.Check(got, C.HasLen, 0)
	c.Check(t.s.Pending(), C.Equals, 1)

	t.idler.runAll()
	c.Check(got, C.DeepEquals, []string{"a"})
	c.Check(t.s.Pending(), C.Equals, 0)
}

func (t *leisureTester) TestOrderAndNotify(c *C.C) {
	var got []string
	record := func(prefix string) Func {
		return func(data interface{}) {
			got = append(got, prefix+data.(string))
		}
	}
	t.s.RunAtLeisure(record("fn:"), "1", record("notify:"))
	t.s.RunAtLeisure(record("fn:"), "2", nil)
	t.s.RunAtLeisure(record("fn:"), "3", record("notify:"))
	c.Check(len(t.idler.queue), C.Equals, 1)

	t.idler.runAll()
	c.Check(got, C.DeepEquals, []string{
		"fn:1", "notify:1", "fn:2", "fn:3", "notify:3",
	})
}

func (t *leisureTester) TestWorkBlocksDrain(c *C.C) {
	ran := 0
	t.s.RunAtLeisure(func(interface{}) { ran++ }, nil, nil)
	t.s.BeginWork()

	t.idler.runAll()
	c.Check(ran, C.Equals, 0)
	c.Check(t.s.Pending(), C.Equals, 1)
	c.Check(t.s.Scheduled(), C.Equals, false)

	t.s.EndWork()
	t.idler.runAll()
	c.Check(ran, C.Equals, 1)
}

func (t *leisureTester) TestEnqueueDuringDrain(c *C.C) {
	var got []int
	t.s.RunAtLeisure(func(interface{}) {
		got = append(got, 1)
		t.s.RunAtLeisure(func(interface{}) {
			got = append(got, 3)
		}, nil, nil)
	}, nil, nil)
	t.s.RunAtLeisure(func(interface{}) { got = append(got, 2) }, nil, nil)

	c.Assert(t.idler.runOne(), C.Equals, true)
	c.Check(got, C.DeepEquals, []int{1, 2})
	c.Check(t.s.Pending(), C.Equals, 1)

	c.Assert(t.idler.runOne(), C.Equals, true)
	c.Check(got, C.DeepEquals, []int{1, 2, 3})
	c.Check(t.idler.runOne(), C.Equals, false)
}
