package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/toolbelt/pkg/config"
)

var _ = Describe("Configer config", func() {
	var tmpDir string

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "config-test-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	writeConfig := func(data string) {
		err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(data), 0o600)
		Expect(err).NotTo(HaveOccurred())
	}

	newConfiger := func() *config.Configer {
		c, err := config.NewConfiger(tmpDir)
		Expect(err).NotTo(HaveOccurred())
		return c
	}

	Describe("LoadConfig", func() {
		It("returns default config when no config file exists", func() {
			cfg, err := newConfiger().LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg).To(Equal(config.NewDefaultConfig()))
		})

		It("loads all config fields", func() {
			writeConfig(`version = 0

[server]
transport = "http"
listen = ":9999"

[integrations]
enabled = ["hubspot"]

[twitter]
base_url = "http://localhost:1/2"

[google_docs]
docs_base_url = "http://localhost:2/"
drive_base_url = "http://localhost:3/drive/v3/"

[hubspot]
base_url = "http://localhost:4"

[http]
timeout = "5s"
bulk_timeout = "10s"
`)
			cfg, err := newConfiger().LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Server.Transport).To(Equal("http"))
			Expect(cfg.Server.Listen).To(Equal(":9999"))
			Expect(cfg.Integrations.Enabled).To(Equal([]string{"hubspot"}))
			Expect(cfg.Twitter.BaseURL).To(Equal("http://localhost:1/2"))
			Expect(cfg.GoogleDocs.DocsBaseURL).To(Equal("http://localhost:2/"))
			Expect(cfg.GoogleDocs.DriveBaseURL).To(Equal("http://localhost:3/drive/v3/"))
			Expect(cfg.HubSpot.BaseURL).To(Equal("http://localhost:4"))
			Expect(cfg.HTTP.Timeout).To(Equal("5s"))
			Expect(cfg.HTTP.BulkTimeout).To(Equal("10s"))
		})

		It("fills in defaults for unset fields in a partial config", func() {
			writeConfig(`[server]
transport = "http"
`)
			cfg, err := newConfiger().LoadConfig()
			Expect(err).NotTo(HaveOccurred())

			defaults := config.NewDefaultConfig()
			Expect(cfg.Server.Transport).To(Equal("http"))
			Expect(cfg.Server.Listen).To(Equal(defaults.Server.Listen))
			Expect(cfg.Integrations.Enabled).To(Equal(defaults.Integrations.Enabled))
			Expect(cfg.Twitter.BaseURL).To(Equal("https://api.twitter.com/2"))
			Expect(cfg.HTTP.BulkTimeout).To(Equal("60s"))
		})

		It("returns error for malformed TOML", func() {
			writeConfig("not valid toml [[[")

			cfg, err := newConfiger().LoadConfig()
			Expect(err).To(HaveOccurred())
			Expect(cfg).To(BeNil())
		})

		It("returns error for unsupported config version", func() {
			writeConfig("version = 99\n")

			_, err := newConfiger().LoadConfig()
			Expect(err).To(MatchError(ContainSubstring("unsupported config version 99")))
		})
	})

	Describe("SaveConfig", func() {
		It("round-trips a config with restricted permissions", func() {
			c := newConfiger()
			cfg := config.NewDefaultConfig()
			cfg.Server.Listen = ":7000"
			cfg.Integrations.Enabled = []string{"twitter", "hubspot"}

			Expect(c.SaveConfig(cfg)).To(Succeed())

			info, err := os.Stat(c.GetTarget())
			Expect(err).NotTo(HaveOccurred())
			Expect(info.Mode().Perm()).To(Equal(os.FileMode(0o600)))

			loaded, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(Equal(cfg))
		})

		It("returns error for nil config", func() {
			Expect(newConfiger().SaveConfig(nil)).To(HaveOccurred())
		})
	})

	Describe("SetConfigValue", func() {
		It("sets a string config key and preserves the rest", func() {
			c := newConfiger()
			Expect(c.SetConfigValue("server.listen", ":6000")).To(Succeed())
			Expect(c.SetConfigValue("hubspot.base_url", "http://hs.local")).To(Succeed())

			listen, err := c.GetConfigValue("server.listen")
			Expect(err).NotTo(HaveOccurred())
			Expect(listen).To(Equal(":6000"))
		})

		It("splits comma-separated integration lists", func() {
			c := newConfiger()
			Expect(c.SetConfigValue("integrations.enabled", "twitter, google_docs,")).To(Succeed())

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Integrations.Enabled).To(Equal([]string{"twitter", "google_docs"}))

			v, err := c.GetConfigValue("integrations.enabled")
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal("twitter,google_docs"))
		})

		DescribeTable("rejecting invalid values",
			func(key, value string) {
				Expect(newConfiger().SetConfigValue(key, value)).To(HaveOccurred())
			},
			Entry("unknown key", "proxy.listen", ":1"),
			Entry("bad transport", "server.transport", "grpc"),
			Entry("bad duration", "http.timeout", "soon"),
			Entry("negative duration", "http.bulk_timeout", "-1s"),
		)
	})

	Describe("GetConfigValue", func() {
		It("returns default values when no config file exists", func() {
			v, err := newConfiger().GetConfigValue("server.transport")
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal(config.TransportStdio))
		})

		It("returns error for unknown key", func() {
			_, err := newConfiger().GetConfigValue("nope")
			Expect(err).To(MatchError(ContainSubstring("unknown config key")))
		})
	})

	Describe("ValidConfigKeys", func() {
		It("returns every key in section order", func() {
			Expect(config.ValidConfigKeys()).To(Equal([]string{
				"server.transport",
				"server.listen",
				"integrations.enabled",
				"twitter.base_url",
				"google_docs.docs_base_url",
				"google_docs.drive_base_url",
				"hubspot.base_url",
				"http.timeout",
				"http.bulk_timeout",
			}))
		})

		It("only lists valid keys", func() {
			for _, k := range config.ValidConfigKeys() {
				Expect(config.IsValidConfigKey(k)).To(BeTrue())
			}
			Expect(config.IsValidConfigKey("storage.sqlite_path")).To(BeFalse())
		})
	})
})

var _ = Describe("NewDefaultConfig", func() {
	It("enables every integration and uses the public API roots", func() {
		d := config.NewDefaultConfig()
		Expect(d.Integrations.Enabled).To(Equal([]string{"twitter", "google_docs", "hubspot"}))
		Expect(d.GoogleDocs.DocsBaseURL).To(Equal("https://docs.googleapis.com/"))
		Expect(d.GoogleDocs.DriveBaseURL).To(Equal("https://www.googleapis.com/drive/v3/"))
		Expect(d.HubSpot.BaseURL).To(Equal("https://api.hubapi.com"))
		Expect(d.HTTP.Timeout).To(Equal("30s"))
	})
})
