package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/ryabkov82/clubstats/internal/apperr"
	"gopkg.in/yaml.v3"
)

const (
	ConfigEnv  = "CLUBSTATS_CONFIG"
	dateLayout = "2006-01-02"
)

type Config struct {
	Root     string             `yaml:"root"`
	Verbose  bool               `yaml:"verbose"`
	Members  MembersConfig      `yaml:"members"`
	Activity ActivityConfig     `yaml:"activity"`
	Reminder ReminderConfig     `yaml:"reminder"`
	Years    map[int]YearConfig `yaml:"years"`
}

type MembersConfig struct {
	Sheet   string        `yaml:"sheet"`
	Columns MemberColumns `yaml:"columns"`
	Output  string        `yaml:"output"` // шаблон имени книги, %d = год
	Chart   string        `yaml:"chart"`  // шаблон имени графика, %d = год
	Summary string        `yaml:"summary"`
}

// MemberColumns имена колонок после нормализации.
type MemberColumns struct {
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
	BirthDate string `yaml:"birth_date"`
	Gender    string `yaml:"gender"`
}

type ActivityConfig struct {
	Sheet         string   `yaml:"sheet"`
	Days          []string `yaml:"days"`
	YouthMaxAge   int      `yaml:"youth_max_age"`
	MinDailyTotal float64  `yaml:"min_daily_total"` // на график попадают дни строго больше порога
	NameColumn    string   `yaml:"name_column"`
	BornColumn    string   `yaml:"born_column"`
	Chart         string   `yaml:"chart"`
	Title         string   `yaml:"title"`
}

type ReminderConfig struct {
	Members       string   `yaml:"members"`
	NotPaid       string   `yaml:"not_paid"`
	Output        string   `yaml:"output"`
	MemberColumns []string `yaml:"member_columns"` // позиционные имена колонок файла участников
}

// YearConfig переопределения для отдельного года; пустые поля берутся из
// общих настроек.
type YearConfig struct {
	MembersFile   string `yaml:"members_file"`
	MembersSheet  string `yaml:"members_sheet"`
	ActivityFile  string `yaml:"activity_file"`
	ActivitySheet string `yaml:"activity_sheet"`
	ReferenceDate string `yaml:"reference_date"`
}

func Default() *Config {
	return &Config{
		Members: MembersConfig{
			Sheet: "Data",
			Columns: MemberColumns{
				FirstName: "fornamn",
				LastName:  "efternamn",
				BirthDate: "fodelsedat_personnr",
				Gender:    "kon",
			},
			Output:  "PersonAges_%d.xlsx",
			Chart:   "PersonAges_%d.png",
			Summary: "PersonAges_%d.txt",
		},
		Activity: ActivityConfig{
			Sheet:         "Aktiviteter per person och dag",
			Days:          []string{"Thursday"},
			YouthMaxAge:   16,
			MinDailyTotal: 12,
			NameColumn:    "namn",
			BornColumn:    "fodd",
			Chart:         "stats_%d.png",
			Title:         "Statistik för torsdagsträningar",
		},
		Reminder: ReminderConfig{
			Output:        "remind.csv",
			MemberColumns: []string{"first_name", "last_name", "idrotts_id", "email"},
		},
		Years: map[int]YearConfig{},
	}
}

// LoadEnv подхватывает .env, если он есть.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return apperr.Wrapf(err, "ошибка чтения %s", f)
		}
	}
	return nil
}

// Load читает YAML поверх значений по умолчанию. Пустой путь означает
// CLUBSTATS_CONFIG, а если и он пуст, то только значения по умолчанию.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv(ConfigEnv)
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperr.Newf(apperr.CodeMissingFile, "файл конфигурации не найден: %s", path)
		}
		return nil, apperr.Wrapf(err, "ошибка чтения конфигурации %s", path)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, &apperr.Error{Code: apperr.CodeConfig, Message: fmt.Sprintf("ошибка разбора %s", path), Cause: err}
	}
	if cfg.Years == nil {
		cfg.Years = map[int]YearConfig{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Members.Sheet == "" || c.Activity.Sheet == "" {
		return apperr.New(apperr.CodeConfig, "не задано имя листа по умолчанию")
	}
	if len(c.Activity.Days) == 0 {
		return apperr.New(apperr.CodeConfig, "не заданы дни недели для статистики")
	}
	for _, d := range c.Activity.Days {
		if !isWeekday(d) {
			return apperr.Newf(apperr.CodeConfig, "неизвестный день недели %q", d)
		}
	}
	if len(c.Reminder.MemberColumns) == 0 {
		return apperr.New(apperr.CodeConfig, "не заданы колонки файла участников")
	}
	for year, y := range c.Years {
		if y.ReferenceDate == "" {
			continue
		}
		if _, err := time.Parse(dateLayout, y.ReferenceDate); err != nil {
			return apperr.Newf(apperr.CodeConfig, "год %d: неверная reference_date %q", year, y.ReferenceDate)
		}
	}
	return nil
}

func isWeekday(name string) bool {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if d.String() == name {
			return true
		}
	}
	return false
}

func (c *Config) year(year int) YearConfig {
	return c.Years[year]
}

// MembersSheet лист с участниками для года: переопределение или общий.
func (c *Config) MembersSheet(year int) string {
	if s := c.year(year).MembersSheet; s != "" {
		return s
	}
	return c.Members.Sheet
}

func (c *Config) ActivitySheet(year int) string {
	if s := c.year(year).ActivitySheet; s != "" {
		return s
	}
	return c.Activity.Sheet
}

// ReferenceDate дата расчёта возраста, по умолчанию 31 декабря года.
func (c *Config) ReferenceDate(year int) (time.Time, error) {
	if s := c.year(year).ReferenceDate; s != "" {
		t, err := time.Parse(dateLayout, s)
		if err != nil {
			return time.Time{}, apperr.Newf(apperr.CodeConfig, "год %d: неверная reference_date %q", year, s)
		}
		return t, nil
	}
	return time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC), nil
}

// MembersFile входной файл года; аргумент командной строки важнее.
func (c *Config) MembersFile(year int, override string) (string, error) {
	return pick(override, c.year(year).MembersFile, "members_file", year)
}

func (c *Config) ActivityFile(year int, override string) (string, error) {
	return pick(override, c.year(year).ActivityFile, "activity_file", year)
}

func pick(override, configured, key string, year int) (string, error) {
	if override != "" {
		return override, nil
	}
	if configured != "" {
		return configured, nil
	}
	return "", apperr.Newf(apperr.CodeConfig, "год %d: не указан %s", year, key)
}

// OutputName подставляет год в шаблон имени.
func OutputName(pattern string, year int) string {
	if !strings.Contains(pattern, "%d") {
		return pattern
	}
	return fmt.Sprintf(pattern, year)
}
