// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package scdb

import "github.com/mplatt8/mainchain/metrics"

var (
	metricBlocksConnected  = metrics.LazyLoadCounter("blocks_connected_count")
	metricInertVotes       = metrics.LazyLoadCounter("inert_votes_count")
	metricBundleOutcomes   = metrics.LazyLoadCounterVec("bundle_outcome_count", []string{"status"})
	metricPendingRecompute = metrics.LazyLoadCounterVec("pending_recompute_count", []string{"result"})
	metricTallyDuration    = metrics.LazyLoadHistogram("tally_duration_ms", metrics.BucketTally)
	metricScoringBundles   = metrics.LazyLoadGauge("scoring_bundles_gauge")
)
