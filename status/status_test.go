package status_test

import (
	"github.com/integrada/portal/catalog"
	"github.com/integrada/portal/patients"
	patientsTest "github.com/integrada/portal/patients/test"
	"github.com/integrada/portal/status"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Status Engine", func() {
	var engine *status.Engine
	var patient patients.Patient
	bai := catalog.TestDefinition{Code: "BAI", Label: "Inventário de Ansiedade de Beck"}

	BeforeEach(func() {
		engine = status.NewEngine(&status.Config{DoneSuffix: "_FEITO"})
		patient = patientsTest.RandomPatient()
	})

	It("is open when eligible and not completed", func() {
		patient.Flags = map[string]string{"BAI": "sim", "BAI_FEITO": "não"}
		Expect(engine.Of(bai, &patient)).To(Equal(status.Open))
	})

	It("is completed when eligible and completed", func() {
		patient.Flags = map[string]string{"BAI": "Sim", "BAI_FEITO": "SIM"}
		Expect(engine.Of(bai, &patient)).To(Equal(status.Completed))
	})

	It("is hidden when the eligibility column is absent", func() {
		patient.Flags = map[string]string{"BAI_FEITO": "sim"}
		Expect(engine.Of(bai, &patient)).To(Equal(status.Hidden))
	})

	It("is hidden for any non affirmative eligibility value regardless of completion", func() {
		values := []string{"", "não", "nao", "yes", "s", "1", "true", "talvez"}
		for _, value := range values {
			for _, done := range []string{"sim", "não", ""} {
				patient.Flags = map[string]string{"BAI": value, "BAI_FEITO": done}
				Expect(engine.Of(bai, &patient)).To(Equal(status.Hidden), "eligibility %q completion %q", value, done)
			}
		}
	})

	It("uses the configured column prefix", func() {
		engine = status.NewEngine(&status.Config{FlagPrefix: "T_", DoneSuffix: "_FEITO"})
		patient.Flags = map[string]string{"T_BAI": "sim", "T_BAI_FEITO": "sim", "BAI": "não"}
		Expect(engine.Of(bai, &patient)).To(Equal(status.Completed))
	})

	It("treats a nil patient as not eligible", func() {
		Expect(engine.Of(bai, nil)).To(Equal(status.Hidden))
	})

	It("reflects the latest patient record", func() {
		patient.Flags = map[string]string{"BAI": "sim"}
		Expect(engine.Of(bai, &patient)).To(Equal(status.Open))
		patient.Flags["BAI_FEITO"] = "sim"
		Expect(engine.Of(bai, &patient)).To(Equal(status.Completed))
	})

	It("summarizes released, open and completed tests", func() {
		definitions := []catalog.TestDefinition{
			{Code: "BAI"}, {Code: "BDI"}, {Code: "SRS2"}, {Code: "ETDAH"},
		}
		patient.Flags = map[string]string{
			"BAI": "sim", "BAI_FEITO": "sim",
			"BDI": "sim",
			"SRS2": "não", "SRS2_FEITO": "sim",
			"ETDAH": "sim", "ETDAH_FEITO": "não",
		}
		Expect(engine.Summarize(definitions, &patient)).To(Equal(status.Summary{Released: 3, Open: 2, Completed: 1}))
	})
})
