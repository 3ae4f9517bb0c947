package respondents_test

import (
	"github.com/integrada/portal/respondents"
	"github.com/integrada/portal/test"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Respondent Classifier", func() {
	var classifier *respondents.Classifier

	BeforeEach(func() {
		classifier = respondents.NewClassifier()
	})

	DescribeTable("Classify",
		func(source string, expected respondents.Category) {
			Expect(classifier.Classify(source).Category).To(Equal(expected))
		},
		Entry("patient", "paciente", respondents.Patient),
		Entry("self report with accents and case", "Autorrelato", respondents.Patient),
		Entry("hyphenated self report", "auto-relato", respondents.Patient),
		Entry("mother", "Mãe", respondents.Guardians),
		Entry("guardian", "Responsável legal", respondents.Guardians),
		Entry("caregivers", "pais/cuidadores", respondents.Guardians),
		Entry("psychologist", "psicóloga", respondents.Professional),
		Entry("school psychologist", "Psicóloga escolar", respondents.Professional),
		Entry("educational psychologist", "psicopedagoga da escola", respondents.Professional),
		Entry("therapist", "Terapeuta ocupacional", respondents.Professional),
		Entry("teacher", "Professora", respondents.Teachers),
		Entry("school", "escola", respondents.Teachers),
		Entry("teacher abbreviation", "prof. regente", respondents.Teachers),
		Entry("friend", "amigo próximo", respondents.Family),
		Entry("relative", "Familiares", respondents.Family),
		Entry("grandmother", "avó", respondents.Family),
		Entry("unknown", "segunda fonte", respondents.Professional),
		Entry("empty", "", respondents.Professional),
	)

	It("checks patient before guardians", func() {
		Expect(classifier.Classify("paciente e pais").Category).To(Equal(respondents.Patient))
	})

	It("does not match partial words", func() {
		Expect(classifier.Classify("paisagem").Category).To(Equal(respondents.Professional))
		Expect(classifier.Classify("professorado").Category).To(Equal(respondents.Professional))
	})

	It("labels matched sources with the category label", func() {
		Expect(classifier.Classify("professores")).To(Equal(respondents.Classification{
			Category: respondents.Teachers,
			Label:    "Professores/Escola",
		}))
	})

	It("keeps the raw text as label when nothing matches", func() {
		Expect(classifier.Classify("  Coordenação  ")).To(Equal(respondents.Classification{
			Category: respondents.Professional,
			Label:    "Coordenação",
		}))
	})

	It("maps every input to a known category", func() {
		for i := 0; i < 200; i++ {
			source := test.Faker.Lorem().Sentence(test.Faker.IntBetween(1, 6))
			category, ok := respondents.Parse(string(classifier.Classify(source).Category))
			Expect(ok).To(BeTrue())
			Expect(classifier.Classify(source).Category).To(Equal(category))
		}
	})

	It("honours the order of custom rules", func() {
		rules := []respondents.Rule{respondents.DefaultRules[3], respondents.DefaultRules[2]}
		custom := respondents.NewClassifierWithRules(rules)
		Expect(custom.Classify("psicóloga escolar").Category).To(Equal(respondents.Teachers))
	})

	DescribeTable("Normalize",
		func(input, expected string) {
			Expect(respondents.Normalize(input)).To(Equal(expected))
		},
		Entry("accents", "Psicóloga Escolar", "psicologa escolar"),
		Entry("separators", "segunda_fonte/pais", "segunda fonte pais"),
		Entry("cedilla and tilde", "Coordenação", "coordenacao"),
	)

	Describe("Parse", func() {
		It("accepts known categories", func() {
			category, ok := respondents.Parse(" Guardians ")
			Expect(ok).To(BeTrue())
			Expect(category).To(Equal(respondents.Guardians))
		})

		It("rejects unknown categories", func() {
			_, ok := respondents.Parse("neighbours")
			Expect(ok).To(BeFalse())
		})
	})
})
