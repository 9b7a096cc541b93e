package dynamodb

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

var (
	placeholderNames  = regexp.MustCompile(`#\w+`)
	placeholderValues = regexp.MustCompile(`:\w+`)
	filterCompare     = regexp.MustCompile(`^(#\w+(?:\.#\w+)*) (=|>=) (:\w+)$`)
	filterContains    = regexp.MustCompile(`^contains \((#\w+(?:\.#\w+)*), (:\w+)\)$`)
)

// fakeAPI is an in-memory DynamoDB covering the calls the repositories make:
// primary key get/put/update, GSI range queries with Limit and
// ExclusiveStartKey, paged scans with filters, and batch writes with
// injectable failures.
type fakeAPI struct {
	mu     sync.Mutex
	tables map[string]map[string]map[string]types.AttributeValue

	batchCalls  []int
	batchErrs   map[int]error
	unprocessed func(call int, requests []types.WriteRequest) []types.WriteRequest

	scanPageSize int
	scanInputs   []*dynamodb.ScanInput
	queryInputs  []*dynamodb.QueryInput

	getErr   error
	putErr   error
	queryErr error
	scanErr  error
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		tables:    make(map[string]map[string]map[string]types.AttributeValue),
		batchErrs: make(map[int]error),
	}
}

func str(av types.AttributeValue) (string, bool) {
	s, ok := av.(*types.AttributeValueMemberS)
	if !ok {
		return "", false
	}
	return s.Value, true
}

func itemKey(item map[string]types.AttributeValue) string {
	pk, _ := str(item[attrPK])
	sk, _ := str(item[attrSK])
	return pk + "|" + sk
}

func (f *fakeAPI) table(name string) map[string]map[string]types.AttributeValue {
	t, ok := f.tables[name]
	if !ok {
		t = make(map[string]map[string]types.AttributeValue)
		f.tables[name] = t
	}
	return t
}

// seed stores a raw item, bypassing the repositories.
func (f *fakeAPI) seed(tableName string, item map[string]types.AttributeValue) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.table(tableName)[itemKey(item)] = item
}

func (f *fakeAPI) count(tableName string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.table(tableName))
}

func (f *fakeAPI) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	item := f.table(aws.ToString(in.TableName))[itemKey(in.Key)]
	return &dynamodb.GetItemOutput{Item: item}, nil
}

func (f *fakeAPI) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return nil, f.putErr
	}
	f.table(aws.ToString(in.TableName))[itemKey(in.Item)] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeAPI) UpdateItem(_ context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	t := f.table(aws.ToString(in.TableName))
	key := itemKey(in.Key)
	item, exists := t[key]
	if strings.Contains(aws.ToString(in.ConditionExpression), "attribute_exists") && !exists {
		return nil, &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")}
	}
	if !exists {
		item = map[string]types.AttributeValue{attrPK: in.Key[attrPK], attrSK: in.Key[attrSK]}
	}

	updated := copyMap(item)
	clauses := strings.TrimPrefix(strings.TrimSpace(aws.ToString(in.UpdateExpression)), "SET ")
	for _, clause := range strings.Split(clauses, ",") {
		parts := strings.SplitN(strings.TrimSpace(clause), " = ", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("fake: unsupported update clause %q", clause)
		}
		var path []string
		for _, segment := range strings.Split(parts[0], ".") {
			path = append(path, in.ExpressionAttributeNames[segment])
		}
		setPath(updated, path, in.ExpressionAttributeValues[strings.TrimSpace(parts[1])])
	}
	t[key] = updated
	return &dynamodb.UpdateItemOutput{}, nil
}

func copyMap(m map[string]types.AttributeValue) map[string]types.AttributeValue {
	out := make(map[string]types.AttributeValue, len(m))
	for k, v := range m {
		if nested, ok := v.(*types.AttributeValueMemberM); ok {
			v = &types.AttributeValueMemberM{Value: copyMap(nested.Value)}
		}
		out[k] = v
	}
	return out
}

func setPath(m map[string]types.AttributeValue, path []string, value types.AttributeValue) {
	if len(path) == 1 {
		m[path[0]] = value
		return
	}
	nested, ok := m[path[0]].(*types.AttributeValueMemberM)
	if !ok {
		nested = &types.AttributeValueMemberM{Value: map[string]types.AttributeValue{}}
		m[path[0]] = nested
	}
	setPath(nested.Value, path[1:], value)
}

func (f *fakeAPI) BatchWriteItem(_ context.Context, in *dynamodb.BatchWriteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := &dynamodb.BatchWriteItemOutput{UnprocessedItems: map[string][]types.WriteRequest{}}
	for tableName, requests := range in.RequestItems {
		f.batchCalls = append(f.batchCalls, len(requests))
		call := len(f.batchCalls)
		if err, ok := f.batchErrs[call]; ok {
			return nil, err
		}

		var skipped []types.WriteRequest
		if f.unprocessed != nil {
			skipped = f.unprocessed(call, requests)
		}
		skip := make(map[string]bool, len(skipped))
		for _, r := range skipped {
			skip[itemKey(r.PutRequest.Item)] = true
		}

		t := f.table(tableName)
		for _, r := range requests {
			if r.PutRequest == nil || skip[itemKey(r.PutRequest.Item)] {
				continue
			}
			t[itemKey(r.PutRequest.Item)] = r.PutRequest.Item
		}
		if len(skipped) > 0 {
			out.UnprocessedItems[tableName] = skipped
		}
	}
	return out, nil
}

// parseKeyCondition reads "(#a = :a) AND (#b BETWEEN :lo AND :hi)" or "#a = :a".
func parseKeyCondition(in *dynamodb.QueryInput) (pkName, pkValue, skName, lower, upper string) {
	expr := aws.ToString(in.KeyConditionExpression)
	names := placeholderNames.FindAllString(expr, -1)
	values := placeholderValues.FindAllString(expr, -1)

	pkName = in.ExpressionAttributeNames[names[0]]
	pkValue, _ = str(in.ExpressionAttributeValues[values[0]])
	if len(names) > 1 && len(values) > 2 {
		skName = in.ExpressionAttributeNames[names[1]]
		lower, _ = str(in.ExpressionAttributeValues[values[1]])
		upper, _ = str(in.ExpressionAttributeValues[values[2]])
	}
	return pkName, pkValue, skName, lower, upper
}

func (f *fakeAPI) Query(_ context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queryInputs = append(f.queryInputs, in)
	if f.queryErr != nil {
		return nil, f.queryErr
	}

	pkName, pkValue, skName, lower, upper := parseKeyCondition(in)
	sortAttr := skName
	if sortAttr == "" {
		sortAttr = strings.TrimSuffix(pkName, "PK") + "SK"
	}

	var matched []map[string]types.AttributeValue
	for _, item := range f.table(aws.ToString(in.TableName)) {
		if v, ok := str(item[pkName]); !ok || v != pkValue {
			continue
		}
		if skName != "" {
			v, ok := str(item[skName])
			if !ok || v < lower || v > upper {
				continue
			}
		}
		matched = append(matched, item)
	}

	sort.Slice(matched, func(i, j int) bool {
		a, _ := str(matched[i][sortAttr])
		b, _ := str(matched[j][sortAttr])
		if a != b {
			return a < b
		}
		return itemKey(matched[i]) < itemKey(matched[j])
	})

	page, last := paginate(matched, in.ExclusiveStartKey, aws.ToInt32(in.Limit), pkName, sortAttr)
	return &dynamodb.QueryOutput{Items: page, Count: int32(len(page)), LastEvaluatedKey: last}, nil
}

func (f *fakeAPI) Scan(_ context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scanInputs = append(f.scanInputs, in)
	if f.scanErr != nil {
		return nil, f.scanErr
	}

	var all []map[string]types.AttributeValue
	for _, item := range f.table(aws.ToString(in.TableName)) {
		all = append(all, item)
	}
	sort.Slice(all, func(i, j int) bool { return itemKey(all[i]) < itemKey(all[j]) })

	limit := aws.ToInt32(in.Limit)
	if f.scanPageSize > 0 && (limit == 0 || int32(f.scanPageSize) < limit) {
		limit = int32(f.scanPageSize)
	}
	page, last := paginate(all, in.ExclusiveStartKey, limit, "", "")

	// Limit counts items read, so the filter runs after pagination.
	var filtered []map[string]types.AttributeValue
	for _, item := range page {
		ok, err := matchesFilter(in, item)
		if err != nil {
			return nil, err
		}
		if ok {
			filtered = append(filtered, item)
		}
	}
	return &dynamodb.ScanOutput{Items: filtered, Count: int32(len(filtered)), LastEvaluatedKey: last}, nil
}

// matchesFilter evaluates AND-joined "=", ">=" and contains() conditions
// over top-level or nested string attributes.
func matchesFilter(in *dynamodb.ScanInput, item map[string]types.AttributeValue) (bool, error) {
	expr := aws.ToString(in.FilterExpression)
	if expr == "" {
		return true, nil
	}
	for _, cond := range splitAnd(expr) {
		if m := filterCompare.FindStringSubmatch(cond); m != nil {
			got, ok := resolvePath(item, in.ExpressionAttributeNames, m[1])
			want, _ := str(in.ExpressionAttributeValues[m[3]])
			if !ok || (m[2] == "=" && got != want) || (m[2] == ">=" && got < want) {
				return false, nil
			}
			continue
		}
		if m := filterContains.FindStringSubmatch(cond); m != nil {
			got, ok := resolvePath(item, in.ExpressionAttributeNames, m[1])
			want, _ := str(in.ExpressionAttributeValues[m[2]])
			if !ok || !strings.Contains(got, want) {
				return false, nil
			}
			continue
		}
		return false, fmt.Errorf("fake scan: unsupported condition %q", cond)
	}
	return true, nil
}

// splitAnd breaks expr into its top-level AND operands, recursively.
func splitAnd(expr string) []string {
	expr = trimParens(expr)
	depth := 0
	for i := 0; i < len(expr); i++ {
		switch expr[i] {
		case '(':
			depth++
		case ')':
			depth--
		}
		if depth == 0 && strings.HasPrefix(expr[i:], " AND ") {
			return append(splitAnd(expr[:i]), splitAnd(expr[i+len(" AND "):])...)
		}
	}
	return []string{expr}
}

// trimParens strips parentheses that wrap the whole expression.
func trimParens(expr string) string {
	for strings.HasPrefix(expr, "(") {
		depth, closeAt := 0, -1
		for i := 0; i < len(expr) && closeAt < 0; i++ {
			switch expr[i] {
			case '(':
				depth++
			case ')':
				depth--
				if depth == 0 {
					closeAt = i
				}
			}
		}
		if closeAt != len(expr)-1 {
			break
		}
		expr = expr[1:closeAt]
	}
	return expr
}

// resolvePath follows "#a.#b" through map attributes to a string value.
func resolvePath(item map[string]types.AttributeValue, names map[string]string, path string) (string, bool) {
	current := item
	parts := strings.Split(path, ".")
	for i, placeholder := range parts {
		av, ok := current[names[placeholder]]
		if !ok {
			return "", false
		}
		if i == len(parts)-1 {
			return str(av)
		}
		m, ok := av.(*types.AttributeValueMemberM)
		if !ok {
			return "", false
		}
		current = m.Value
	}
	return "", false
}

// paginate applies ExclusiveStartKey and Limit to items already in order.
func paginate(items []map[string]types.AttributeValue, start map[string]types.AttributeValue, limit int32, indexPK, indexSK string) ([]map[string]types.AttributeValue, map[string]types.AttributeValue) {
	if len(start) > 0 {
		startKey := itemKey(start)
		for i, item := range items {
			if itemKey(item) == startKey {
				items = items[i+1:]
				break
			}
		}
	}
	if limit <= 0 || int(limit) >= len(items) {
		return items, nil
	}

	page := items[:limit]
	lastItem := page[len(page)-1]
	last := map[string]types.AttributeValue{attrPK: lastItem[attrPK], attrSK: lastItem[attrSK]}
	for _, name := range []string{indexPK, indexSK} {
		if name != "" {
			last[name] = lastItem[name]
		}
	}
	return page, last
}
