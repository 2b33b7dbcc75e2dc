package resolver_test

import (
	"maps"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/eqsolve/internal/resolver"
)

var _ = Describe("Solve", func() {
	DescribeTable("linear residuals match the closed form",
		func(formula string, bindings map[string]float64, unknown string, closed func(map[string]float64) float64) {
			got, err := resolver.Solve(formula, bindings, unknown)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(BeNumerically("~", closed(bindings), 1e-6))
		},
		Entry("distance", "d = v * t", map[string]float64{"v": 12.5, "t": 8}, "d",
			func(b map[string]float64) float64 { return b["v"] * b["t"] }),
		Entry("speed", "d = v * t", map[string]float64{"d": 300, "t": 8}, "v",
			func(b map[string]float64) float64 { return b["d"] / b["t"] }),
		Entry("final velocity", "v = v0 + a * t", map[string]float64{"v0": 3, "a": -9.8, "t": 1.5}, "v",
			func(b map[string]float64) float64 { return b["v0"] + b["a"]*b["t"] }),
		Entry("initial velocity", "v = v0 + a * t", map[string]float64{"v": 0, "a": -9.8, "t": 2}, "v0",
			func(b map[string]float64) float64 { return b["v"] - b["a"]*b["t"] }),
		Entry("force", "F = m * a", map[string]float64{"m": 70, "a": 9.81}, "F",
			func(b map[string]float64) float64 { return b["m"] * b["a"] }),
	)

	It("is deterministic", func() {
		bindings := map[string]float64{"d": 100, "v0": 2, "a": 3}
		first, err := resolver.Solve("d = v0 * t + 0.5 * a * t^2", bindings, "t")
		Expect(err).NotTo(HaveOccurred())

		for range 10 {
			again, err := resolver.Solve("d = v0 * t + 0.5 * a * t^2", bindings, "t")
			Expect(err).NotTo(HaveOccurred())
			Expect(again).To(Equal(first))
		}
	})

	Describe("round trip", func() {
		const formula = "v = v0 + a * t"
		original := map[string]float64{"v0": 4, "a": 2.5, "t": 6}

		It("recovers every other variable from the solved value", func() {
			v, err := resolver.Solve(formula, original, "v")
			Expect(err).NotTo(HaveOccurred())

			for name, want := range original {
				bindings := maps.Clone(original)
				bindings["v"] = v
				delete(bindings, name)

				got, err := resolver.Solve(formula, bindings, name)
				Expect(err).NotTo(HaveOccurred(), "solving for %s", name)
				Expect(got).To(BeNumerically("~", want, 1e-6), "solving for %s", name)
			}
		})
	})

	Describe("missing bindings", func() {
		It("reports MissingVariable for each omitted variable", func() {
			full := map[string]float64{"v0": 0, "a": 9.8, "t": 3}
			for name := range full {
				bindings := maps.Clone(full)
				delete(bindings, name)

				got, err := resolver.Solve("d = v0 * t + 0.5 * a * t^2", bindings, "d")
				Expect(err).To(MatchError(resolver.ErrMissingVariable))
				Expect(got).To(BeZero())

				var mv *resolver.MissingVariableError
				Expect(err).To(BeAssignableToTypeOf(mv))
				Expect(err.(*resolver.MissingVariableError).Name).To(Equal(name))
			}
		})
	})

	Describe("zero derivative at the initial guess", func() {
		It("fails instead of returning NaN or Inf", func() {
			res, err := resolver.Default().SolveDetailed("y = c * x + k", map[string]float64{"y": 3, "c": 0, "k": 1}, "x")
			Expect(err).To(MatchError(resolver.ErrDivergentDerivative))
			Expect(res).To(BeNil())
		})

		It("never yields a non-finite value", func() {
			for _, formula := range []string{"y = 1 / (x - 1)", "y = sqrt(x - 2)", "y = ln(x - 1)"} {
				got, err := resolver.Solve(formula, map[string]float64{"y": 2}, "x")
				if err == nil {
					Expect(math.IsNaN(got) || math.IsInf(got, 0)).To(BeFalse(), formula)
				} else {
					Expect(got).To(BeZero(), formula)
				}
			}
		})
	})

	Describe("concrete scenarios", func() {
		It("solves v = v0 + a * t for v", func() {
			got, err := resolver.Solve("v = v0 + a * t", map[string]float64{"v0": 0, "a": 9.8, "t": 2}, "v")
			Expect(err).NotTo(HaveOccurred())
			Expect(resolver.Round(got, resolver.DisplayPrecision)).To(Equal(19.6))
		})

		It("solves d = v0 * t + 0.5 * a * t^2 for d", func() {
			got, err := resolver.Solve("d = v0 * t + 0.5 * a * t^2", map[string]float64{"v0": 0, "a": 9.8, "t": 3}, "d")
			Expect(err).NotTo(HaveOccurred())
			Expect(resolver.Round(got, resolver.DisplayPrecision)).To(Equal(44.1))
		})
	})
})
