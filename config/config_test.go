package config_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/pflag"

	"github.com/tikz/exposure/config"
	"github.com/tikz/exposure/sasa"
)

func setenv(key, value string) {
	Expect(os.Setenv(key, value)).To(Succeed())
	DeferCleanup(os.Unsetenv, key)
}

var _ = Describe("Config", func() {
	var tmpDir string

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
	})

	writeConfig := func(data string) string {
		path := filepath.Join(tmpDir, "config.yaml")
		Expect(os.WriteFile(path, []byte(data), 0o600)).To(Succeed())
		return path
	}

	Describe("Load", func() {
		It("returns defaults when no config file exists", func() {
			v, err := config.InitViper("")
			Expect(err).NotTo(HaveOccurred())

			cfg, err := config.Load(v)
			Expect(err).NotTo(HaveOccurred())

			defaults := config.NewDefaultConfig()
			Expect(cfg.ProbeRadius).To(Equal(defaults.ProbeRadius))
			Expect(cfg.SampleCount).To(Equal(defaults.SampleCount))
			Expect(cfg.ExposureThreshold).To(Equal(defaults.ExposureThreshold))
			Expect(cfg.Workers).To(Equal(defaults.Workers))
			Expect(cfg.HTTP).To(Equal(defaults.HTTP))
			Expect(cfg.Cache.Path).To(Equal(defaults.Cache.Path))
			Expect(cfg.DefaultElementRadius).To(BeNil())
			Expect(cfg.Hetatm).To(BeFalse())
		})

		It("loads a config file", func() {
			path := writeConfig(`
probe_radius: 1.2
sample_count: 100
default_element_radius: 1.8
hetatm: true
http:
  timeout: 30s
cache:
  path: /tmp/exposure.db
log:
  debug: true
`)
			v, err := config.InitViper(path)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := config.Load(v)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.ProbeRadius).To(Equal(1.2))
			Expect(cfg.SampleCount).To(Equal(100))
			Expect(cfg.DefaultElementRadius).To(HaveValue(Equal(1.8)))
			Expect(cfg.Hetatm).To(BeTrue())
			Expect(cfg.HTTP.Timeout).To(Equal(30 * time.Second))
			Expect(cfg.Cache.Path).To(Equal("/tmp/exposure.db"))
			Expect(cfg.Log.Debug).To(BeTrue())
		})

		It("fails on a missing explicit config file", func() {
			_, err := config.InitViper(filepath.Join(tmpDir, "missing.yaml"))
			Expect(err).To(HaveOccurred())
		})

		It("rejects invalid engine parameters", func() {
			v, err := config.InitViper(writeConfig("exposure_threshold: 2\n"))
			Expect(err).NotTo(HaveOccurred())

			_, err = config.Load(v)
			Expect(err).To(MatchError(sasa.ErrConfiguration))
		})

		It("applies flags over environment over file", func() {
			path := writeConfig("sample_count: 100\nprobe_radius: 1.2\nexposure_threshold: 0.3\n")
			setenv("EXPOSURE_SAMPLE_COUNT", "50")
			setenv("EXPOSURE_PROBE_RADIUS", "1.0")
			setenv("EXPOSURE_DEFAULT_ELEMENT_RADIUS", "1.9")

			v, err := config.InitViper(path)
			Expect(err).NotTo(HaveOccurred())

			fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
			fs.Float64("probe", 0, "")
			fs.Int("samples", 0, "")
			fs.Float64("threshold", 0, "")
			Expect(fs.Parse([]string{"--samples=25"})).To(Succeed())
			Expect(config.BindFlags(v, fs)).To(Succeed())

			cfg, err := config.Load(v)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.SampleCount).To(Equal(25))
			Expect(cfg.ProbeRadius).To(Equal(1.0))
			Expect(cfg.ExposureThreshold).To(Equal(0.3))
			Expect(cfg.DefaultElementRadius).To(HaveValue(Equal(1.9)))
		})
	})

	Describe("Engine", func() {
		It("carries the engine parameters", func() {
			cfg := config.NewDefaultConfig()
			r := 2.0
			cfg.DefaultElementRadius = &r

			e := cfg.Engine(nil)
			Expect(e.ProbeRadius).To(Equal(cfg.ProbeRadius))
			Expect(e.SampleCount).To(Equal(cfg.SampleCount))
			Expect(e.DefaultElementRadius).To(Equal(&r))
			Expect(e.Validate()).To(Succeed())
		})
	})
})
