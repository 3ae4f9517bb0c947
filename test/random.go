package test

import (
	"fmt"
	"math/rand"

	"github.com/jaswdr/faker"
	"github.com/onsi/ginkgo/v2"
)

var (
	Faker  = faker.NewWithSeed(Source)
	Rand   = rand.New(Source)
	Source = rand.NewSource(ginkgo.GinkgoRandomSeed())
)

// RandomCpf returns an 11 digit identifier. Check digits are not computed.
func RandomCpf() string {
	return fmt.Sprintf("%011d", Rand.Int63n(1e11))
}

// RandomToken returns an opaque link token.
func RandomToken() string {
	return Faker.Lorem().Word() + Faker.UUID().V4()[:8]
}
