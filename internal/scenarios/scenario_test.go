package scenarios

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestCatalogCoversEveryScenarioOnce(t *testing.T) {
	all := Catalog()

	want := []string{"TC-99"}
	for n := 166; n <= 227; n++ {
		want = append(want, fmt.Sprintf("TC-%d", n))
	}

	got := make([]string, 0, len(all))
	for _, sc := range all {
		got = append(got, sc.ID)
	}
	assert.Equal(t, want, got)
}

func TestCatalogEntriesAreRunnable(t *testing.T) {
	for _, sc := range Catalog() {
		t.Run(sc.ID, func(t *testing.T) {
			assert.NotEmpty(t, sc.Name)
			assert.Contains(t, Suites, sc.Suite)
			if sc.Skip != "" {
				assert.Nil(t, sc.Run, "skipped scenarios carry no body")
				return
			}
			assert.NotNil(t, sc.Run)
		})
	}
}

func TestCatalogFlags(t *testing.T) {
	rejections := map[string]bool{}
	skipped := map[string]bool{}
	for _, sc := range Catalog() {
		if sc.ExpectsRejection {
			rejections[sc.ID] = true
		}
		if sc.Skip != "" {
			skipped[sc.ID] = true
		}
	}

	assert.Equal(t, map[string]bool{
		"TC-170": true, "TC-172": true, "TC-173": true, "TC-174": true,
		"TC-197": true, "TC-198": true, "TC-199": true, "TC-200": true, "TC-201": true, "TC-202": true,
	}, rejections)
	assert.Equal(t, map[string]bool{"TC-181": true, "TC-182": true}, skipped)
}

func TestGeolocationScenariosGrantPermission(t *testing.T) {
	for _, sc := range Catalog() {
		switch sc.ID {
		case "TC-218", "TC-220", "TC-222":
			require.NotNil(t, sc.Options.Geolocation, sc.ID)
			assert.Equal(t, []string{"geolocation"}, sc.Options.Permissions, sc.ID)
		case "TC-217", "TC-219", "TC-221":
			assert.Nil(t, sc.Options.Geolocation, sc.ID)
		}
	}
}

func TestSelect(t *testing.T) {
	all := Catalog()

	tests := []struct {
		name    string
		suites  []string
		ids     []string
		wantIDs []string
		wantErr string
	}{
		{name: "single suite", suites: []string{"smoke"}, wantIDs: []string{"TC-99"}},
		{name: "ids", ids: []string{"TC-204", "TC-166"}, wantIDs: []string{"TC-166", "TC-204"}},
		{name: "suite and id intersect", suites: []string{"cart"}, ids: []string{"TC-194", "TC-99"}, wantIDs: []string{"TC-194"}},
		{name: "unknown suite", suites: []string{"payments"}, wantErr: `unknown suite "payments"`},
		{name: "unknown id", ids: []string{"TC-1"}, wantErr: `unknown scenario "TC-1"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Select(all, tt.suites, tt.ids)
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			ids := make([]string, 0, len(got))
			for _, sc := range got {
				ids = append(ids, sc.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestSelectNoFiltersKeepsEverything(t *testing.T) {
	all := Catalog()
	got, err := Select(all, nil, nil)
	require.NoError(t, err)
	assert.Len(t, got, len(all))
}

func TestSelectBySuitePartitionsCatalog(t *testing.T) {
	all := Catalog()
	rapid.Check(t, func(t *rapid.T) {
		picked := rapid.SliceOfNDistinct(rapid.SampledFrom(Suites), 1, len(Suites), rapid.ID[Suite]).Draw(t, "suites")
		names := make([]string, len(picked))
		for i, s := range picked {
			names[i] = string(s)
		}

		got, err := Select(all, names, nil)
		if err != nil {
			t.Fatalf("select %v: %v", names, err)
		}

		want := 0
		for _, sc := range all {
			for _, s := range picked {
				if sc.Suite == s {
					want++
				}
			}
		}
		if len(got) != want {
			t.Fatalf("select %v returned %d scenarios, want %d", names, len(got), want)
		}
		for _, sc := range got {
			found := false
			for _, s := range picked {
				found = found || sc.Suite == s
			}
			if !found {
				t.Fatalf("%s from suite %s leaked into %v", sc.ID, sc.Suite, names)
			}
		}
	})
}

func TestNumber(t *testing.T) {
	assert.Equal(t, 99, Scenario{ID: "TC-99"}.Number())
	assert.Equal(t, 227, Scenario{ID: "TC-227"}.Number())
	assert.Equal(t, 0, Scenario{ID: "smoke"}.Number())
}
