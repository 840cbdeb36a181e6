package output

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/funktionslust/boxbulk"
	"github.com/funktionslust/boxbulk/utils"

	"github.com/divideandconquer/go-merge/merge"
	"github.com/go-test/deep"
	"github.com/olivere/elastic/v7"
	"go.uber.org/zap"
)

// ElasticsearchScheme is the scheme of report destinations in Elasticsearch, e.g. "es://box-reports"
// where "box-reports" is the index name.
const ElasticsearchScheme = "es"

const (
	// attemptsOnConflict represents the number of attempts on version conflict.
	attemptsOnConflict = 3
	// reportNameField and reportRowField are added to every indexed row.
	reportNameField = "report_name"
	reportRowField  = "report_row"
)

// ElasticsearchOutputConfig represents the ElasticsearchOutput configurable fields model.
type ElasticsearchOutputConfig struct {
	// ServerURL is the ES server URL with protocol and port. E.g. https://my.es.instance:9200.
	ServerURL string `validate:"required,url"`
	// Indices represents indices that will be created in case they don't exist.
	// Base index config support: set Repository.Name to foo-base to make sure it's definitions will
	// be merged with all configs that have the name foo-*.
	Indices []boxbulk.Repository
	// IndicesPath represents the path to a directory that contains *.json files with createIndex
	// payload (mappings and settings). The file name will be used as index name.
	IndicesPath string
	// IndexSuffixes (prefix -> suffix) suffix will be appended to all index names that have a matching
	// prefix, this can be useful for versioning (box-reports-1, box-reports-2, ...).
	IndexSuffixes map[string]string
	// RetryPause is the pause before a bulk request throttled by the server is retried.
	// Defaults to one minute.
	RetryPause time.Duration
}

// NewElasticsearchOutput returns a new instance of the ElasticsearchOutput.
func NewElasticsearchOutput(cfg ElasticsearchOutputConfig) *ElasticsearchOutput {
	if cfg.RetryPause == 0 {
		cfg.RetryPause = time.Minute
	}
	return &ElasticsearchOutput{
		Cfg: cfg,
	}
}

// ElasticsearchOutput represents an output that indexes every report row as a document.
type ElasticsearchOutput struct {
	boxbulk.BaseStorage
	Cfg    ElasticsearchOutputConfig
	client *elastic.Client
}

// Setup connects to the server and makes sure every configured report index exists with the
// expected mappings.
func (o *ElasticsearchOutput) Setup() error {
	client, err := elastic.NewClient(elastic.SetURL(o.Cfg.ServerURL), elastic.SetSniff(false))
	if err != nil {
		return err
	}
	if _, _, err := client.Ping(o.Cfg.ServerURL).Do(o.Context); err != nil {
		return fmt.Errorf("ping elasticsearch error: %v", err)
	}
	o.client = client
	fromFiles, err := loadIndexFiles(o.Cfg.IndicesPath)
	if err != nil {
		return fmt.Errorf("load index files error: %v", err)
	}
	o.Cfg.Indices = o.resolveIndices(append(o.Cfg.Indices, fromFiles...))
	return o.ensureIndices()
}

// ensureIndices creates the missing report indices and checks the mappings of the existing ones.
func (o *ElasticsearchOutput) ensureIndices() error {
	if len(o.Cfg.Indices) == 0 {
		return nil
	}
	names := make([]string, 0, len(o.Cfg.Indices))
	for _, index := range o.Cfg.Indices {
		names = append(names, index.Name)
	}
	existing, err := o.client.IndexGet(names...).IgnoreUnavailable(true).Do(o.Context)
	if err != nil {
		return err
	}
	for _, index := range o.Cfg.Indices {
		found, ok := existing[index.Name]
		if !ok {
			body := map[string]interface{}{"settings": index.Settings, "mappings": index.Schema}
			if _, err := o.client.CreateIndex(index.Name).BodyJson(body).Do(o.Context); err != nil {
				return fmt.Errorf("create index %s error: %v", index.Name, err)
			}
			o.Logger.Info("report index created", zap.String("index", index.Name))
			continue
		}
		if diff := deep.Equal(found.Mappings, index.Schema); diff != nil {
			return fmt.Errorf("the mappings of %s index do not match: %s", index.Name, strings.Join(diff, " || "))
		}
	}
	return nil
}

// resolveIndices drops the "{prefix}-base" definitions, merges them into every index whose name
// starts with the prefix and applies the configured suffixes. Indices without a name are skipped.
func (o *ElasticsearchOutput) resolveIndices(indices []boxbulk.Repository) []boxbulk.Repository {
	bases := make(map[string]boxbulk.Repository)
	for _, index := range indices {
		if prefix := strings.TrimSuffix(index.Name, "-base"); prefix != index.Name {
			bases[prefix] = index
		}
	}
	resolved := make([]boxbulk.Repository, 0, len(indices))
	for _, index := range indices {
		if index.Name == "" || strings.HasSuffix(index.Name, "-base") {
			continue
		}
		index.Name = o.repositoryWithSuffix(index.Name)
		for prefix, base := range bases {
			if strings.HasPrefix(index.Name, prefix) {
				index.Schema = merge.Merge(base.Schema, index.Schema).(map[string]interface{})
				index.Settings = merge.Merge(base.Settings, index.Settings).(map[string]interface{})
			}
		}
		resolved = append(resolved, index)
	}
	return resolved
}

// indexFile is the content of a single index definition file.
type indexFile struct {
	Settings map[string]interface{}
	Mappings map[string]interface{}
}

// loadIndexFiles reads the "{index}.json" definition files of the directory.
func loadIndexFiles(dir string) ([]boxbulk.Repository, error) {
	if dir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var indices []boxbulk.Repository
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		content, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		var definition indexFile
		if err := json.Unmarshal(content, &definition); err != nil {
			return nil, fmt.Errorf("%s: %v", entry.Name(), err)
		}
		indices = append(indices, boxbulk.Repository{
			Name:     strings.TrimSuffix(entry.Name(), ".json"),
			Settings: definition.Settings,
			Schema:   definition.Mappings,
		})
	}
	return indices, nil
}

// Save indexes every report row as a document of the index named by report.Dir ("es://index").
// Document IDs are "{report name}-{row number}" so saving the same report again overwrites its
// documents.
func (o *ElasticsearchOutput) Save(ctx context.Context, report *boxbulk.Report) (string, error) {
	index, _ := utils.SplitLocation(report.Dir)
	if index == "" {
		return "", fmt.Errorf("%w: %s lacks an index name", boxbulk.ErrIO, report.Dir)
	}
	index = o.repositoryWithSuffix(strings.ToLower(index))
	location := fmt.Sprintf("%s://%s/%s", ElasticsearchScheme, index, report.Name)
	if len(report.Rows) == 0 {
		return location, nil
	}
	bulkService := o.client.Bulk()
	for i, doc := range BuildDocuments(report) {
		bulkService.Add(elastic.NewBulkIndexRequest().
			RetryOnConflict(attemptsOnConflict).
			Index(index).
			Id(fmt.Sprintf("%s-%d", report.Name, i+1)).
			Doc(doc),
		)
	}
	o.Logger.Info("do index", zap.String("index", index), zap.Int("documents", len(report.Rows)))
	bulkResponse, err := o.executeBulkWithRetries(ctx, bulkService, 15, 1)
	o.Logger.Info("done index", zap.String("index", index))
	if err != nil {
		return "", fmt.Errorf("%w: bulk index error: %v", boxbulk.ErrIO, err)
	}
	if err := checkBulkItems(bulkResponse.Indexed(), len(report.Rows)); err != nil {
		return "", fmt.Errorf("%w: %v", boxbulk.ErrIO, err)
	}
	return location, nil
}

// BuildDocuments converts the report rows into documents supplemented with the report name and
// the 1-based row number.
func BuildDocuments(report *boxbulk.Report) []map[string]interface{} {
	docs := make([]map[string]interface{}, 0, len(report.Rows))
	for i, fields := range report.Documents() {
		doc := make(map[string]interface{}, len(fields)+2)
		for k, v := range fields {
			doc[k] = v
		}
		doc[reportNameField] = report.Name
		doc[reportRowField] = i + 1
		docs = append(docs, doc)
	}
	return docs
}

// executeBulkWithRetries executes the bulkService operations with taking care of possible throttling
// from the ES server side as pause and retry.
func (o *ElasticsearchOutput) executeBulkWithRetries(ctx context.Context, bulkService *elastic.BulkService, retries int, try int) (*elastic.BulkResponse, error) {
	bulkResponse, err := bulkService.Do(ctx)
	if err != nil && strings.Contains(err.Error(), "Error 429 (Too Many Requests)") {
		if try <= retries {
			o.Logger.Info("Automatic throttling due to Error 429 (Too Many Requests)")
			select {
			case <-time.After(o.Cfg.RetryPause):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			return o.executeBulkWithRetries(ctx, bulkService, retries, try+1)
		}
	}
	return bulkResponse, err
}

// checkBulkItems fails if the number of indexed documents doesn't match or any of them failed.
func checkBulkItems(executed []*elastic.BulkResponseItem, expected int) error {
	if len(executed) != expected {
		return errors.New("length of indexed and added documents do not match")
	}
	for _, item := range executed {
		if item.Status < 200 || item.Status > 299 {
			return fmt.Errorf("failed to index document %s in index %s: Status: %+v || Result: %+v || Error: %+v",
				item.Id, item.Index, item.Status, item.Result, item.Error)
		}
	}
	return nil
}

// repositoryWithSuffix appends a suffix to the repository based on the o.IndexSuffixes.
func (o *ElasticsearchOutput) repositoryWithSuffix(repository string) string {
	if o.Cfg.IndexSuffixes == nil {
		return repository
	}
	for prefix, suffix := range o.Cfg.IndexSuffixes {
		if strings.HasPrefix(repository, prefix) {
			return repository + suffix
		}
	}
	return repository
}
