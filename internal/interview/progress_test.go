package interview_test

import (
	"github.com/frahmantamala/recruitment-management/internal/interview"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func interviewsWith(results ...string) []*interview.Interview {
	out := make([]*interview.Interview, 0, len(results))
	for _, r := range results {
		out = append(out, &interview.Interview{Result: r})
	}
	return out
}

var _ = Describe("ComputeProgress", func() {
	DescribeTable("aggregates results",
		func(results []string, expected interview.Progress) {
			Expect(interview.ComputeProgress(interviewsWith(results...))).To(Equal(expected))
		},
		Entry("nothing evaluated",
			[]string{interview.ResultPending, interview.ResultPending, interview.ResultPending},
			interview.Progress{Total: 3}),
		Entry("two of three evaluated",
			[]string{interview.ResultPass, interview.ResultFail, interview.ResultPending},
			interview.Progress{Total: 3, Completed: 2, Passed: 1, Percentage: 67}),
		Entry("one of three evaluated",
			[]string{interview.ResultPass, interview.ResultPending, interview.ResultPending},
			interview.Progress{Total: 3, Completed: 1, Passed: 1, Percentage: 33}),
		Entry("half rounds up",
			[]string{interview.ResultFail, interview.ResultPending},
			interview.Progress{Total: 2, Completed: 1, Percentage: 50}),
		Entry("all passed",
			[]string{interview.ResultPass, interview.ResultPass},
			interview.Progress{Total: 2, Completed: 2, Passed: 2, Percentage: 100}),
		Entry("empty", []string{}, interview.Progress{}),
	)

	It("should be idempotent", func() {
		interviews := interviewsWith(interview.ResultPass, interview.ResultFail, interview.ResultPending)
		Expect(interview.ComputeProgress(interviews)).To(Equal(interview.ComputeProgress(interviews)))
	})
})
