package importer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"movie-catalog/internal/data/entity"
	"movie-catalog/internal/data/repository"
	"movie-catalog/pkg/database"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const header = "Movie Name,Year of Release,Run Time in minutes,Movie Rating,Votes,MetaScore,Gross,Genre,Director,Stars,Certification,Description\n"

const sampleCSV = header +
	`The Shawshank Redemption,1994,142,9.3,"2,808,575",82,28.34,"['Drama']","['Frank Darabont']","['Tim Robbins', 'Morgan Freeman']",R,"['Two', 'imprisoned', 'men', 'bond']"` + "\n" +
	`The Godfather,1972,175,9.2,"1,956,428",100,134.97,"['Crime', 'Drama']","['Francis Ford Coppola']","[""Marlon Brando"", 'Al Pacino']",,"['The', 'aging', 'patriarch']"` + "\n" +
	`The Godfather,1972,175,9.2,"1,956,428",100,134.97,"['Crime', 'Drama']","['Francis Ford Coppola']","['Marlon Brando']",R,"['dup']"` + "\n" +
	`Broken Row,nineteen,100,7.0,10,,,"['Drama']","['Someone']","['A']",PG,"['x']"` + "\n" +
	`Too Good,2001,100,9.8,12,,,"['Drama']","['Someone']","['A']",PG,"['x']"` + "\n"

func TestParseList(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{`['Drama', 'Crime']`, []string{"Drama", "Crime"}},
		{`["Marlon Brando", 'Al Pacino']`, []string{"Marlon Brando", "Al Pacino"}},
		{`['O\'Brien', " spaced "]`, []string{"O'Brien", "spaced"}},
		{`["It's"]`, []string{"It's"}},
		{`[]`, nil},
		{``, nil},
		{`['a', '', 'b',]`, []string{"a", "b"}},
	}
	for _, tc := range cases {
		got, err := ParseList(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	for _, bad := range []string{`Drama`, `['Drama'`, `['a' 'b']`, `[, 'a']`, `['unterminated]`, `[Drama]`} {
		_, err := ParseList(bad)
		assert.ErrorIs(t, err, ErrListLiteral, bad)
	}
}

func TestParseList_RoundTrip(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("quoted alphanumeric names survive parsing", prop.ForAll(
		func(names []string) bool {
			var quoted []string
			var want []string
			for i, n := range names {
				if n == "" {
					continue
				}
				q := "'"
				if i%2 == 1 {
					q = `"`
				}
				quoted = append(quoted, q+n+q)
				want = append(want, n)
			}

			got, err := ParseList("[" + strings.Join(quoted, ", ") + "]")
			if err != nil || len(got) != len(want) {
				return false
			}
			for i := range want {
				if got[i] != want[i] {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.AlphaString()),
	))

	properties.TestingRun(t)
}

func TestReadRows(t *testing.T) {
	rows, err := ReadRows(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, "The Shawshank Redemption", rows[0].Get(ColName))
	assert.Equal(t, 2, rows[0].Line)

	_, err = ReadRows(strings.NewReader("Movie Name,Year of Release\nX,1999\n"))
	assert.ErrorIs(t, err, ErrMissingColumn)

	_, err = ReadRows(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestMapRow(t *testing.T) {
	rows, err := ReadRows(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	rec, err := MapRow(rows[0])
	require.NoError(t, err)
	assert.Equal(t, 2808575, rec.Movie.Votes)
	require.NotNil(t, rec.Movie.Gross)
	assert.InDelta(t, 28.34, *rec.Movie.Gross, 1e-9)
	assert.Equal(t, []string{"Tim Robbins", "Morgan Freeman"}, rec.Stars)
	assert.Equal(t, "Two imprisoned men bond", rec.Movie.Description)
	assert.Nil(t, rec.Movie.Price)

	rec, err = MapRow(rows[1])
	require.NoError(t, err)
	assert.Equal(t, entity.NotRated, rec.Movie.Certification)
	assert.Equal(t, []string{"Marlon Brando", "Al Pacino"}, rec.Stars)

	_, err = MapRow(rows[3])
	var rowErr *RowError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, ColYear, rowErr.Column)
	assert.Equal(t, 5, rowErr.Line)
}

func TestPlan(t *testing.T) {
	rows, err := ReadRows(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	batch := Plan(rows, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), zap.NewNop())

	assert.Equal(t, 5, batch.Rows)
	assert.Equal(t, 2, batch.Invalid, "unparsable year and a 9.8 rating with 12 votes")
	assert.Equal(t, 1, batch.Duplicates)
	require.Len(t, batch.Records, 2)
	assert.Equal(t, "The Shawshank Redemption", batch.Records[0].Movie.Name)
	assert.Equal(t, "The Godfather", batch.Records[1].Movie.Name)

	assert.Equal(t, []string{"Drama", "Crime"}, batch.Genres)
	assert.Equal(t, []string{"R", entity.NotRated}, batch.Certifications)
	assert.ElementsMatch(t, []string{"Tim Robbins", "Morgan Freeman", "Marlon Brando", "Al Pacino"}, batch.Stars)
}

// fakeCatalog only answers the calls made before a transaction starts
type fakeCatalog struct {
	repository.CatalogRepository
	hasData  bool
	hasErr   error
	cleanErr error
	cleaned  bool
}

func (f *fakeCatalog) HasData(ctx context.Context) (bool, error) { return f.hasData, f.hasErr }

func (f *fakeCatalog) Clean(ctx context.Context) error {
	f.cleaned = true
	return f.cleanErr
}

func TestImportFile_SkipsPopulatedCatalog(t *testing.T) {
	imp := New(afero.NewMemMapFs(), nil, &fakeCatalog{hasData: true}, zap.NewNop())

	result, err := imp.ImportFile(context.Background(), "does-not-matter.csv")
	require.NoError(t, err)
	assert.True(t, result.Skipped)
}

func TestImportFile_MissingFile(t *testing.T) {
	imp := New(afero.NewMemMapFs(), nil, &fakeCatalog{}, zap.NewNop())

	_, err := imp.ImportFile(context.Background(), "movies.csv")
	assert.ErrorIs(t, err, ErrImport)
}

func TestImport_NothingValid(t *testing.T) {
	imp := New(afero.NewMemMapFs(), nil, &fakeCatalog{}, zap.NewNop())
	csv := header + `Bad,year,1,1,1,,,"[]","[]","[]",,""` + "\n"

	result, err := imp.Import(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)
	assert.Zero(t, result.Imported)
	assert.Equal(t, 1, result.Invalid)
}

func TestClean_Categorizes(t *testing.T) {
	cases := []struct {
		err  error
		want error
	}{
		{&pgconn.PgError{Code: "23503"}, ErrIntegrity},
		{&pgconn.PgError{Code: "22001"}, ErrData},
		{&pgconn.PgError{Code: "57014"}, ErrOperational},
		{errors.New("boom"), ErrImport},
	}
	for _, tc := range cases {
		catalog := &fakeCatalog{cleanErr: tc.err}
		imp := New(afero.NewMemMapFs(), nil, catalog, zap.NewNop())

		err := imp.Clean(context.Background())
		assert.True(t, catalog.cleaned)
		assert.ErrorIs(t, err, tc.want)
		assert.ErrorIs(t, err, ErrImport)
		assert.ErrorIs(t, err, tc.err)
	}

	assert.Equal(t, database.ClassIntegrity, database.Classify(&pgconn.PgError{Code: "23505"}))
}
