package store_test

import (
	"context"
	"errors"
	"net/http"
	"time"

	errs "github.com/integrada/portal/errors"
	"github.com/integrada/portal/store"
	storeTest "github.com/integrada/portal/store/test"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

var _ = Describe("Store", func() {
	Describe("SheetDB client", func() {
		var stub *storeTest.SheetDBServer
		var cfg *store.Config
		var client store.Store

		BeforeEach(func() {
			stub = storeTest.ServerStub()
			cfg = &store.Config{
				SheetDBBaseUrl: stub.URL + "/",
				Timeout:        time.Second * 5,
			}

			var err error
			client, err = store.NewSheetDBClient(cfg, zap.NewNop().Sugar())
			Expect(err).ToNot(HaveOccurred())

			stub.SetRows("Patients",
				store.Row{"cpf": "11122233344", "nome": "Ana"},
				store.Row{"cpf": "55566677788", "nome": "Bruno"},
			)
		})

		AfterEach(func() {
			stub.Close()
		})

		It("returns the rows matching the filter", func() {
			rows, err := client.Search(context.Background(), "Patients", store.Filter{"cpf": "11122233344"})
			Expect(err).ToNot(HaveOccurred())
			Expect(rows).To(ConsistOf(store.Row{"cpf": "11122233344", "nome": "Ana"}))
		})

		It("returns an empty list when nothing matches", func() {
			rows, err := client.Search(context.Background(), "Patients", store.Filter{"cpf": "000"})
			Expect(err).ToNot(HaveOccurred())
			Expect(rows).To(BeEmpty())
		})

		It("fails with store unavailable on non-2xx responses", func() {
			stub.SetFailing("Patients", true)
			_, err := client.Search(context.Background(), "Patients", store.Filter{"cpf": "11122233344"})
			Expect(err).To(MatchError(errs.StoreUnavailable))
			Expect(errs.Code(err)).To(Equal(http.StatusServiceUnavailable))
		})

		It("fails with store unavailable when the server is unreachable", func() {
			stub.Close()
			_, err := client.Search(context.Background(), "Patients", nil)
			Expect(errors.Is(err, errs.StoreUnavailable)).To(BeTrue())
		})

		It("sends the bearer token when configured", func() {
			cfg.SheetDBBearerToken = storeTest.BearerToken
			authorized, err := store.NewSheetDBClient(cfg, zap.NewNop().Sugar())
			Expect(err).ToNot(HaveOccurred())

			_, err = authorized.Search(context.Background(), "Patients", nil)
			Expect(err).ToNot(HaveOccurred())
			Expect(stub.LastAuthorization()).To(Equal("Bearer " + storeTest.BearerToken))
		})

		It("does not send credentials by default", func() {
			_, err := client.Search(context.Background(), "Patients", nil)
			Expect(err).ToNot(HaveOccurred())
			Expect(stub.LastAuthorization()).To(BeEmpty())
		})

		It("rejects an empty base url", func() {
			_, err := store.NewSheetDBClient(&store.Config{}, zap.NewNop().Sugar())
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("NewRow", func() {
		It("renders scalars as cell text", func() {
			row := store.NewRow(map[string]interface{}{
				"order":     float64(3),
				"ratio":     1.5,
				"shareable": "sim",
				"active":    true,
				"form_url":  nil,
			})
			Expect(row).To(Equal(store.Row{
				"order":     "3",
				"ratio":     "1.5",
				"shareable": "sim",
				"active":    "true",
				"form_url":  "",
			}))
		})
	})

	Describe("Workbook", func() {
		var client store.Store

		BeforeEach(func() {
			path, err := storeTest.WriteWorkbook(GinkgoT().TempDir(), storeTest.Sheet{
				Name:    "Tests",
				Columns: []string{"code", "label", "active"},
				Rows: [][]string{
					{"BAI", "Inventário de Ansiedade", "SIM"},
					{"SRS2", "Escala de Responsividade", "não"},
					{"", "", ""},
					{"BDI", "Inventário de Depressão", " sim "},
				},
			})
			Expect(err).ToNot(HaveOccurred())

			client, err = store.NewWorkbookStore(&store.Config{WorkbookPath: path})
			Expect(err).ToNot(HaveOccurred())
		})

		It("filters case-insensitively ignoring surrounding whitespace", func() {
			rows, err := client.Search(context.Background(), "Tests", store.Filter{"active": "sim"})
			Expect(err).ToNot(HaveOccurred())
			Expect(rows).To(HaveLen(2))
			Expect(rows[0]).To(HaveKeyWithValue("code", "BAI"))
			Expect(rows[1]).To(HaveKeyWithValue("code", "BDI"))
		})

		It("skips empty rows", func() {
			rows, err := client.Search(context.Background(), "Tests", nil)
			Expect(err).ToNot(HaveOccurred())
			Expect(rows).To(HaveLen(3))
		})

		It("fails when the sheet does not exist", func() {
			_, err := client.Search(context.Background(), "Patients", nil)
			Expect(err).To(MatchError(errs.StoreUnavailable))
		})

		It("requires a path", func() {
			_, err := store.NewWorkbookStore(&store.Config{})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Deduplicating store", func() {
		var ctrl *gomock.Controller
		var delegate *storeTest.MockStore
		var deduplicating store.Store

		BeforeEach(func() {
			ctrl = gomock.NewController(GinkgoT())
			delegate = storeTest.NewMockStore(ctrl)
			deduplicating = store.NewDeduplicatingStore(delegate)
		})

		It("returns copies of the delegate result", func() {
			shared := []store.Row{{"code": "BAI"}}
			delegate.EXPECT().
				Search(gomock.Any(), store.Collection("Tests"), gomock.Any()).
				Return(shared, nil).
				Times(2)

			first, err := deduplicating.Search(context.Background(), "Tests", store.Filter{"active": "sim"})
			Expect(err).ToNot(HaveOccurred())
			first[0]["code"] = "changed"

			second, err := deduplicating.Search(context.Background(), "Tests", store.Filter{"active": "sim"})
			Expect(err).ToNot(HaveOccurred())
			Expect(second[0]).To(HaveKeyWithValue("code", "BAI"))
			Expect(shared[0]).To(HaveKeyWithValue("code", "BAI"))
		})

		It("propagates errors", func() {
			delegate.EXPECT().
				Search(gomock.Any(), gomock.Any(), gomock.Any()).
				Return(nil, errs.StoreUnavailable)

			_, err := deduplicating.Search(context.Background(), "Tests", nil)
			Expect(err).To(MatchError(errs.StoreUnavailable))
		})
	})

	Describe("Decode", func() {
		type record struct {
			Code  string `sheet:"code"`
			Order int    `sheet:"order"`
		}

		It("maps tagged columns", func() {
			var r record
			Expect(store.Decode(store.Row{"code": "BAI", "order": "2"}, &r)).To(Succeed())
			Expect(r).To(Equal(record{Code: "BAI", Order: 2}))
		})
	})

	Describe("NewStore", func() {
		It("rejects unknown backends", func() {
			_, err := store.NewStore(&store.Config{Backend: "mongo"}, zap.NewNop().Sugar())
			Expect(err).To(HaveOccurred())
		})
	})
})
