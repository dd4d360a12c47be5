package dotdir_test

import (
	"errors"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/toolbelt/pkg/dotdir"
)

var _ = Describe("dotdir", func() {
	var tmpDir string
	var m *dotdir.Manager

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "dotdir-test-*")
		Expect(err).NotTo(HaveOccurred())

		// Resolve symlinks so paths match filepath.Abs results
		// (e.g. on macOS /var -> /private/var).
		tmpDir, err = filepath.EvalSymlinks(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		m = dotdir.NewManager()
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	chdir := func(dir string) {
		origDir, err := os.Getwd()
		Expect(err).NotTo(HaveOccurred())
		Expect(os.Chdir(dir)).To(Succeed())
		DeferCleanup(func() { _ = os.Chdir(origDir) })
	}

	Describe("Target", func() {
		It("creates the directory if it doesn't exist", func() {
			dir := filepath.Join(tmpDir, "newdir")
			result, err := m.Target(dir)
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal(dir))

			info, err := os.Stat(dir)
			Expect(err).NotTo(HaveOccurred())
			Expect(info.IsDir()).To(BeTrue())
		})

		It("returns the override dir even when a local .toolbelt dir exists", func() {
			Expect(os.Mkdir(filepath.Join(tmpDir, dotdir.DirName), 0o755)).To(Succeed())
			chdir(tmpDir)

			overrideDir := filepath.Join(tmpDir, "override")
			result, err := m.Target(overrideDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal(overrideDir))
		})

		It("returns the local .toolbelt dir when it exists and no override is provided", func() {
			local := filepath.Join(tmpDir, dotdir.DirName)
			Expect(os.Mkdir(local, 0o755)).To(Succeed())
			chdir(tmpDir)

			result, err := m.Target("")
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal(local))
		})

		It("falls back to ~/.toolbelt and creates it", func() {
			emptyDir := filepath.Join(tmpDir, "empty")
			Expect(os.Mkdir(emptyDir, 0o755)).To(Succeed())
			chdir(emptyDir)

			GinkgoT().Setenv("HOME", emptyDir)

			result, err := m.Target("")
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal(filepath.Join(emptyDir, dotdir.DirName)))
			Expect(filepath.Join(emptyDir, dotdir.DirName)).To(BeADirectory())
		})

		It("falls back to home when the working directory is unknown", func() {
			pinned := dotdir.NewManagerWith(
				func() (string, error) { return "", errors.New("cwd removed") },
				func() (string, error) { return tmpDir, nil },
			)

			result, err := pinned.Target("")
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal(filepath.Join(tmpDir, dotdir.DirName)))
		})

		It("ignores a local .toolbelt that is a regular file", func() {
			cwd := filepath.Join(tmpDir, "cwd")
			Expect(os.Mkdir(cwd, 0o755)).To(Succeed())
			Expect(os.WriteFile(filepath.Join(cwd, dotdir.DirName), nil, 0o600)).To(Succeed())
			home := filepath.Join(tmpDir, "home")

			pinned := dotdir.NewManagerWith(
				func() (string, error) { return cwd, nil },
				func() (string, error) { return home, nil },
			)

			result, err := pinned.Target("")
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal(filepath.Join(home, dotdir.DirName)))
		})

		It("reports a missing home directory", func() {
			pinned := dotdir.NewManagerWith(
				func() (string, error) { return tmpDir, nil },
				func() (string, error) { return "", errors.New("$HOME is not defined") },
			)

			_, err := pinned.Target("")
			Expect(err).To(MatchError(ContainSubstring("locating home directory")))
		})
	})

	Describe("File", func() {
		It("joins the file name onto the resolved directory", func() {
			path, err := m.File(tmpDir, "config.toml")
			Expect(err).NotTo(HaveOccurred())
			Expect(path).To(Equal(filepath.Join(tmpDir, "config.toml")))
		})

		It("creates the directory the file will live in", func() {
			dir := filepath.Join(tmpDir, "fresh")
			path, err := m.File(dir, "credentials.toml")
			Expect(err).NotTo(HaveOccurred())
			Expect(path).To(Equal(filepath.Join(dir, "credentials.toml")))
			Expect(dir).To(BeADirectory())
		})
	})
})
