// Package dataprocessing turns monthly conduct spreadsheets into analysis
// results.
//
// A run starts with the Loader, which reads one file per period label
// ("3月.xlsx", "4月.csv") through a Source and concatenates the tables by
// column name. Clean removes duplicate rows and fills missing item scores,
// and Observations maps rows onto per-entity scores using the resolved
// column mapping. From there:
//
//   - TrendAnalyzer fits a least-squares line through each entity's scores
//     in chronological order and reports the entities whose slope is
//     negative, most declined first.
//   - Ranker ranks a single period and classifies every entity.
//   - AssessQuality, ItemStatistics, ItemTrend, Pivot and DeductionReports
//     build the supporting reports.
//
// Nothing here keeps state between calls. Every function works on the
// values it is given and returns new ones.
package dataprocessing
