package toolbeltcmder_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	toolbeltcmder "github.com/papercomputeco/toolbelt/cmd/toolbelt"
)

var _ = Describe("NewToolbeltCmd", func() {
	It("registers every subcommand", func() {
		cmd := toolbeltcmder.NewToolbeltCmd()
		names := make([]string, 0, len(cmd.Commands()))
		for _, sub := range cmd.Commands() {
			names = append(names, sub.Name())
		}
		Expect(names).To(ContainElements("serve", "auth", "credentials", "config", "version"))
	})

	It("has global debug and config-dir flags", func() {
		cmd := toolbeltcmder.NewToolbeltCmd()
		Expect(cmd.PersistentFlags().Lookup("debug")).NotTo(BeNil())
		Expect(cmd.PersistentFlags().Lookup("config-dir")).NotTo(BeNil())
	})

	It("prints the version", func() {
		out := &bytes.Buffer{}
		cmd := toolbeltcmder.NewToolbeltCmd()
		cmd.SetOut(out)
		cmd.SetArgs([]string{"version"})

		Expect(cmd.Execute()).To(Succeed())
		Expect(out.String()).To(ContainSubstring("Version: dev"))
	})

	It("stores config under the overridden directory", func() {
		dir := GinkgoT().TempDir()
		out := &bytes.Buffer{}

		cmd := toolbeltcmder.NewToolbeltCmd()
		cmd.SetOut(out)
		cmd.SetArgs([]string{"config", "set", "server.listen", ":9000", "--config-dir", dir})
		Expect(cmd.Execute()).To(Succeed())

		out.Reset()
		cmd = toolbeltcmder.NewToolbeltCmd()
		cmd.SetOut(out)
		cmd.SetArgs([]string{"config", "get", "server.listen", "--config-dir", dir})
		Expect(cmd.Execute()).To(Succeed())
		Expect(out.String()).To(ContainSubstring(":9000"))
		Expect(out.String()).To(ContainSubstring(dir))
	})
})
