package patients_test

import (
	"context"

	errs "github.com/integrada/portal/errors"
	"github.com/integrada/portal/patients"
	patientsTest "github.com/integrada/portal/patients/test"
	"github.com/integrada/portal/store"
	storeTest "github.com/integrada/portal/store/test"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

var _ = Describe("Patients", func() {
	Describe("Repository", func() {
		var ctrl *gomock.Controller
		var st *storeTest.MockStore
		var repo patients.Repository

		collections := store.Collections{Tokens: "LinkTokens", Patients: "Patients", Tests: "Tests"}

		BeforeEach(func() {
			ctrl = gomock.NewController(GinkgoT())
			st = storeTest.NewMockStore(ctrl)
			repo = patients.NewRepository(st, collections)
		})

		It("decodes known columns and keeps the rest as flags", func() {
			random := patientsTest.RandomPatient()
			random.Flags = map[string]string{"BAI": "sim", "BAI_FEITO": "não"}

			st.EXPECT().
				Search(gomock.Any(), collections.Patients, store.Filter{"cpf": random.Cpf}).
				Return([]store.Row{patientsTest.Row(random)}, nil)

			patient, err := repo.Get(context.Background(), random.Cpf)
			Expect(err).ToNot(HaveOccurred())
			Expect(*patient).To(Equal(random))
		})

		It("normalizes the cpf before searching", func() {
			st.EXPECT().
				Search(gomock.Any(), collections.Patients, store.Filter{"cpf": "11122233344"}).
				Return([]store.Row{{"cpf": "11122233344"}}, nil)

			patient, err := repo.Get(context.Background(), "111.222.333-44")
			Expect(err).ToNot(HaveOccurred())
			Expect(patient.Flags).ToNot(BeNil())
		})

		It("fails with patient not found when there is no row", func() {
			st.EXPECT().Search(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)

			_, err := repo.Get(context.Background(), "11122233344")
			Expect(err).To(MatchError(errs.PatientNotFound))
		})

		It("propagates store failures", func() {
			st.EXPECT().Search(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errs.StoreUnavailable)

			_, err := repo.Get(context.Background(), "11122233344")
			Expect(err).To(MatchError(errs.StoreUnavailable))
		})
	})

	Describe("Info", func() {
		It("returns the labelled attributes in display order", func() {
			patient := patients.Patient{
				Cpf:       "11122233344",
				Name:      "Ana Souza",
				BirthDate: "2012-05-09",
			}
			Expect(patient.Info()).To(Equal([]patients.InfoItem{
				{Label: "Nome", Value: "Ana Souza"},
				{Label: "CPF", Value: "111.222.333-44"},
				{Label: "Nascimento", Value: "09/05/2012"},
				{Label: "E-mail", Value: "-"},
				{Label: "WhatsApp", Value: "-"},
			}))
		})
	})

	DescribeTable("MaskCpf",
		func(input, expected string) {
			Expect(patients.MaskCpf(input)).To(Equal(expected))
		},
		Entry("digits", "11122233344", "111.222.333-44"),
		Entry("already masked", "111.222.333-44", "111.222.333-44"),
		Entry("too short", "1234", "1234"),
		Entry("empty", "", ""),
	)

	DescribeTable("FormatBirthDate",
		func(input, expected string) {
			Expect(patients.FormatBirthDate(input)).To(Equal(expected))
		},
		Entry("iso date", "2012-05-09", "09/05/2012"),
		Entry("already formatted", "09/05/2012", "09/05/2012"),
		Entry("empty", "", ""),
	)

	It("falls back to a generic display name", func() {
		Expect((&patients.Patient{Name: "  "}).DisplayName()).To(Equal(patients.DefaultDisplayName))
	})
})
