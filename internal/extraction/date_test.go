package extraction

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ExtractDate", func() {
	var (
		lines  []string
		date   string
		source Source
		ok     bool
	)

	JustBeforeEach(func() {
		date, source, ok = ExtractDate(lines)
	})

	When("a keyword line and an unlabelled line both hold dates", func() {
		BeforeEach(func() {
			lines = []string{"Some other text 01/02/2020", "Transaction Date: 03/15/2024"}
		})

		It("should prefer the keyword line", func() {
			Expect(ok).To(BeTrue())
			Expect(date).To(Equal("2024-03-15"))
			Expect(source).To(Equal(SourcePriority))
		})
	})

	When("only unlabelled lines hold dates", func() {
		BeforeEach(func() {
			lines = []string{"Store 12", "06.15.2023 14:22"}
		})

		It("should fall back to scanning every line", func() {
			Expect(ok).To(BeTrue())
			Expect(date).To(Equal("2023-06-15"))
			Expect(source).To(Equal(SourceFallback))
		})
	})

	When("an invalid candidate precedes a valid one on the same line", func() {
		BeforeEach(func() {
			lines = []string{"Date 13/45/2023 reprinted 02/03/2023"}
		})

		It("should keep scanning and return the valid candidate", func() {
			Expect(date).To(Equal("2023-02-03"))
		})
	})

	When("the day does not exist in the month", func() {
		BeforeEach(func() {
			lines = []string{"Date: 02/30/2024"}
		})

		It("should reject the candidate", func() {
			Expect(ok).To(BeFalse())
			Expect(source).To(Equal(SourceDefault))
		})
	})

	DescribeTable("supported shapes",
		func(line string, expected string) {
			d, _, found := ExtractDate([]string{line})
			Expect(found).To(BeTrue())
			Expect(d).To(Equal(expected))
		},
		Entry("MM/DD/YYYY", "03/15/2024", "2024-03-15"),
		Entry("MM-DD-YY recent", "03-15-24", "2024-03-15"),
		Entry("MM.DD.YY old", "12.31.99", "1999-12-31"),
		Entry("YYYY-MM-DD", "Purchase 2023-11-05", "2023-11-05"),
		Entry("YYYY/MM/DD", "2023/1/9", "2023-01-09"),
		Entry("Month DD, YYYY", "Date: March 7, 2022", "2022-03-07"),
		Entry("abbreviated month", "Sep. 30 2021", "2021-09-30"),
		Entry("DD Month YYYY", "7 August 2020", "2020-08-07"),
		Entry("DD Mon YYYY", "Date 01 Feb 2019", "2019-02-01"),
	)

	It("should reject years outside 1900-2100", func() {
		_, _, found := ExtractDate([]string{"Date 01/01/2200"})
		Expect(found).To(BeFalse())
	})
})

var _ = Describe("Extractor.Date", func() {
	It("should always return an ISO date", func() {
		e := New(WithClock(fixedClock{now: time.Date(2024, 2, 29, 23, 0, 0, 0, time.UTC)}))
		inputs := [][]string{nil, {"no date"}, {"Date: 99/99/9999"}, {"05/06/2007"}}
		for _, in := range inputs {
			d, _ := e.Date(in)
			Expect(d).To(MatchRegexp(`^\d{4}-\d{2}-\d{2}$`))
			_, err := time.Parse(isoDate, d)
			Expect(err).NotTo(HaveOccurred())
		}
	})
})
