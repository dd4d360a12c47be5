package credentials_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/toolbelt/pkg/credentials"
)

var _ = Describe("Specs", func() {
	It("declares every integration", func() {
		Expect(credentials.Names()).To(Equal([]string{"twitter", "google_docs", "hubspot"}))
	})

	It("maps integrations to their environment variables", func() {
		for name, envVar := range map[string]string{
			credentials.Twitter:    "TWITTER_BEARER_TOKEN",
			credentials.GoogleDocs: "GOOGLE_DOCS_ACCESS_TOKEN",
			credentials.HubSpot:    "HUBSPOT_ACCESS_TOKEN",
		} {
			spec, ok := credentials.Lookup(name)
			Expect(ok).To(BeTrue())
			Expect(spec.EnvVar).To(Equal(envVar))
			Expect(spec.CredentialID).To(Equal(name))
			Expect(spec.CredentialKey).To(Equal("access_token"))
		}
	})

	It("counts the tools each integration serves", func() {
		counts := map[string]int{}
		for _, spec := range credentials.Specs() {
			counts[spec.Name] = len(spec.Tools)
		}
		Expect(counts).To(Equal(map[string]int{"twitter": 15, "google_docs": 10, "hubspot": 12}))
	})

	It("finds the spec for a tool", func() {
		spec, ok := credentials.ForTool("google_docs_export_content")
		Expect(ok).To(BeTrue())
		Expect(spec.Name).To(Equal(credentials.GoogleDocs))

		_, ok = credentials.ForTool("unknown_tool")
		Expect(ok).To(BeFalse())
	})

	It("only lets Google Docs fall back to a service account", func() {
		for _, spec := range credentials.Specs() {
			if spec.Name == credentials.GoogleDocs {
				Expect(spec.ServiceAccountEnvVar).To(Equal(credentials.ServiceAccountEnvVar))
			} else {
				Expect(spec.ServiceAccountEnvVar).To(BeEmpty())
			}
		}
	})

	It("includes the help URL in the remediation text", func() {
		spec, _ := credentials.Lookup(credentials.Twitter)
		Expect(spec.Help()).To(ContainSubstring("TWITTER_BEARER_TOKEN"))
		Expect(spec.Help()).To(ContainSubstring(spec.HelpURL))
	})
})
