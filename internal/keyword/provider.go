package keyword

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/LJTian/CyberPulse/internal/logging"
)

const aptSectionHeader = "# APT Groups"

// Set 一次读取得到的关键词快照，读取后不再修改
type Set struct {
	General []string
	APT     []string
}

// Combined 通用关键词与 APT 关键词的去重并集，用于高亮
func (s Set) Combined() []string {
	seen := make(map[string]struct{}, len(s.General)+len(s.APT))
	out := make([]string, 0, len(s.General)+len(s.APT))
	for _, list := range [][]string{s.General, s.APT} {
		for _, kw := range list {
			if _, ok := seen[kw]; ok {
				continue
			}
			seen[kw] = struct{}{}
			out = append(out, kw)
		}
	}
	return out
}

// Parse 解析关键词文件：所有非空、非 # 开头的行都是通用关键词（小写）；
// "# APT Groups" 之后、下一个不含 APT 的注释标题之前的行同时构成 APT 关键词
func Parse(r io.Reader) (Set, error) {
	var (
		set        Set
		aptSection bool
		aptDone    bool
	)

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "#") {
			switch {
			case strings.HasPrefix(line, aptSectionHeader) && !aptDone:
				aptSection = true
			case aptSection && !strings.Contains(line, "APT"):
				aptSection = false
				aptDone = true
			}
			continue
		}

		kw := strings.ToLower(line)
		set.General = append(set.General, kw)
		if aptSection {
			set.APT = append(set.APT, kw)
		}
	}
	if err := sc.Err(); err != nil {
		return Set{}, fmt.Errorf("keyword: parse: %w", err)
	}
	return set, nil
}

// FileProvider 按文件修改时间热加载关键词，未变化时返回缓存
type FileProvider struct {
	path string

	mu     sync.Mutex
	mtime  time.Time
	set    Set
	loaded bool
}

func NewFileProvider(path string) *FileProvider {
	return &FileProvider{path: path}
}

func (p *FileProvider) Keywords() (Set, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	info, err := os.Stat(p.path)
	if err != nil {
		if p.loaded {
			logging.Warn("keywords file unavailable, serving cached set", "file", p.path, "err", err)
			return p.set, nil
		}
		return Set{}, fmt.Errorf("keyword: stat %s: %w", p.path, err)
	}
	if p.loaded && info.ModTime().Equal(p.mtime) {
		return p.set, nil
	}

	f, err := os.Open(p.path)
	if err != nil {
		return Set{}, fmt.Errorf("keyword: open %s: %w", p.path, err)
	}
	defer f.Close()

	set, err := Parse(f)
	if err != nil {
		return Set{}, err
	}
	p.set = set
	p.mtime = info.ModTime()
	p.loaded = true
	logging.Info("keywords reloaded", "general", len(set.General), "apt", len(set.APT), "file", p.path)
	return set, nil
}
