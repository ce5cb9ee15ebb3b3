package worker_test

import (
	"context"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/policyqa/pkg/cache"
	"github.com/papercomputeco/policyqa/pkg/cache/memory"
	"github.com/papercomputeco/policyqa/pkg/cache/worker"
	"github.com/papercomputeco/policyqa/pkg/logger"
)

var _ = Describe("Worker Pool", func() {
	var (
		driver *memory.Driver
		wp     *worker.Pool
	)

	BeforeEach(func() {
		driver = memory.NewDriver()
		var err error
		wp, err = worker.NewPool(&worker.Config{Driver: driver, Logger: logger.Nop()})
		Expect(err).NotTo(HaveOccurred())
	})

	It("requires a driver", func() {
		_, err := worker.NewPool(&worker.Config{Logger: logger.Nop()})
		Expect(err).To(HaveOccurred())
	})

	It("writes every queued entry before Close returns", func() {
		for i := range 20 {
			Expect(wp.Enqueue(worker.Job{
				Key:   cache.Key(fmt.Sprintf("q%d", i)),
				Entry: cache.Entry{Answer: fmt.Sprintf("a%d", i)},
			})).To(BeTrue())
		}
		wp.Close()

		Expect(driver.Len()).To(Equal(20))
		e, ok, err := driver.Get(context.Background(), cache.Key("q7"))
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
		Expect(e.Answer).To(Equal("a7"))
	})

	It("drops jobs after Close", func() {
		wp.Close()
		Expect(wp.Enqueue(worker.Job{Key: "k"})).To(BeFalse())
	})

	It("tolerates repeated Close", func() {
		wp.Close()
		Expect(wp.Close).NotTo(Panic())
	})
})
