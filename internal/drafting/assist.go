package drafting

import (
	"context"
	"encoding/json"
	"log"
	"strings"
)

// Фиксированные резервные тексты разовых генераций. Подставляются молча:
// недоступность генерации никогда не останавливает рабочий процесс.
const (
	mockDraft = `【智能生成的项目需求草稿（DeepSeek 模拟）】

1. 项目背景
当前业务系统数据处理时效性不足。为响应集团“降本增效”号召，亟需引入前沿技术对现有架构进行升级改造。

2. 核心建设目标
构建一套高可用、高并发、智能化的综合管理平台。实现数据全链路实时监控，提升跨部门协同效率 40% 以上。

3. 关键技术指标要求
- 系统平均响应时间 < 200ms
- 支持并发用户数 > 50,000
- 需适配国产化信创环境`

	mockOutline = `【智能生成的方案提纲（DeepSeek 模拟）】

1. 总体架构设计思路
采用“云边端”协同架构，底层依托移动云，中间层构建能力中台，上层微服务支撑业务。

2. 拟采用的关键技术栈
- 后端：Spring Cloud Alibaba + K8s
- 数据库：OceanBase + Redis
- AI引擎：DeepSeek-V3 私有化部署

3. 方案核心优势
- 全网经验复用
- 100% 信创自主可控`
)

// mockAnalysis - резервная оценка сложности.
var mockAnalysis = Analysis{
	Score:   88,
	Summary: "该项目涉及高并发与大数据实时处理，技术架构复杂度较高，建议重点关注数据一致性与系统稳定性。",
}

// Analysis - результат оценки сложности требования.
type Analysis struct {
	Score   int    `json:"score"`
	Summary string `json:"summary"`
}

// Assistant выполняет разовые генерации: текст требования, план решения
// и оценку сложности. Любой сбой подменяется фиксированным значением.
type Assistant struct {
	gateway Gateway
	logger  *log.Logger
}

// NewAssistant создаёт новый экземпляр Assistant.
func NewAssistant(gateway Gateway, logger *log.Logger) *Assistant {
	return &Assistant{gateway: gateway, logger: logger}
}

// GenerateDraft составляет формальный текст требования по теме и ограничениям.
func (a *Assistant) GenerateDraft(ctx context.Context, topic, constraints string) string {
	raw, err := a.gateway.Complete(ctx, buildDraftMessages(topic, constraints), false)
	if err != nil || strings.TrimSpace(raw) == "" {
		a.logger.Printf("draft generation fell back to mock: %v", err)
		return mockDraft
	}
	return raw
}

// GenerateOutline составляет план технического ответа по описанию требования.
func (a *Assistant) GenerateOutline(ctx context.Context, requirementDesc string) string {
	raw, err := a.gateway.Complete(ctx, buildOutlineMessages(requirementDesc), false)
	if err != nil || strings.TrimSpace(raw) == "" {
		a.logger.Printf("outline generation fell back to mock: %v", err)
		return mockOutline
	}
	return raw
}

// Analyze оценивает сложность описания требования.
func (a *Assistant) Analyze(ctx context.Context, description string) Analysis {
	raw, err := a.gateway.Complete(ctx, buildAnalysisMessages(description), true)
	if err != nil {
		a.logger.Printf("analysis fell back to mock: %v", err)
		return mockAnalysis
	}

	var analysis Analysis
	if err := json.Unmarshal([]byte(stripFences(raw)), &analysis); err != nil {
		a.logger.Printf("analysis output unparseable, using mock: %v", err)
		return mockAnalysis
	}
	if analysis.Score < 0 || analysis.Score > 100 {
		return mockAnalysis
	}
	return analysis
}
