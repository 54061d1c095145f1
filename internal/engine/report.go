package engine

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
)

// Report собирает статистику пакетного запуска.
type Report struct {
	Loaded     int
	Failed     int
	NoHeads    int
	Skipped    int
	Candidates int
	Placed     int
	Bytes      uint64
	Paths      []string
	Errors     []error

	ProcessTime time.Duration
	ExportTime  time.Duration
	TotalTime   time.Duration
}

func newReport(results []*Result, failures []error) *Report {
	r := &Report{}
	for _, err := range failures {
		if err != nil {
			r.Failed++
			r.Errors = append(r.Errors, err)
		}
	}
	for _, res := range results {
		if res == nil {
			continue
		}
		r.Loaded++
		r.Candidates += res.Stats.Candidates
		r.Placed += res.Stats.Placed
		if res.NoHeads {
			r.NoHeads++
		}
		if res.Skipped {
			r.Skipped++
			continue
		}
		r.Bytes += uint64(len(res.Output.Data))
	}
	return r
}

func (r *Report) Print(build string) {
	fmt.Printf(
		"--- [BATCH REPORT] ---\n"+
			"Build: %s\n"+
			"Documents: %s loaded, %s failed, %s without heads, %s skipped\n"+
			"Masks: %s placed of %s heads\n"+
			"Output: %s\n"+
			"Processing: %.3fs\n"+
			"Export: %.3fs\n"+
			"Total Time: %.3fs\n"+
			"----------------------\n",
		build,
		humanize.Comma(int64(r.Loaded)), humanize.Comma(int64(r.Failed)),
		humanize.Comma(int64(r.NoHeads)), humanize.Comma(int64(r.Skipped)),
		humanize.Comma(int64(r.Placed)), humanize.Comma(int64(r.Candidates)),
		humanize.Bytes(r.Bytes),
		r.ProcessTime.Seconds(), r.ExportTime.Seconds(), r.TotalTime.Seconds(),
	)
}

// AppendLog дописывает однострочную сводку в лог-файл по пути path.
func (r *Report) AppendLog(path, build string) error {
	entry := fmt.Sprintf("[%s] Build: %s | Loaded: %d | Failed: %d | Masks: %d | Output: %s | Total: %.3fs\n",
		time.Now().Format("2006-01-02 15:04:05"),
		build,
		r.Loaded,
		r.Failed,
		r.Placed,
		humanize.Bytes(r.Bytes),
		r.TotalTime.Seconds(),
	)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(entry)
	return err
}
